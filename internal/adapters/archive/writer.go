// Package archive writes selected files into a single packed context file.
package archive

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"

	"github.com/ctxpack/ctxpack/internal/adapters/tokenizer"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// Result summarizes one archive write.
type Result struct {
	// Output is the path the archive was written to.
	Output string
	// Files is the number of files included.
	Files int
	// Bytes is the total size of the written archive.
	Bytes int64
	// Skipped lists files left out because they were binary or unreadable.
	Skipped []string
}

// Writer packs files from a profile root into one delimited text file.
type Writer struct {
	root string
}

// NewWriter creates a Writer reading files relative to root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Write packs the given relative paths, sorted, into output. Binary and
// unreadable files are skipped and reported in the result rather than
// failing the whole archive.
func (w *Writer) Write(output string, paths []string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, domain.ErrNoSelection
	}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return Result{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "dir", dir)
		}
	}

	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm) //nolint:gosec // Output path comes from the profile
	if err != nil {
		return Result{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", output)
	}

	buf := bufio.NewWriter(f)
	res := Result{Output: output}

	for _, rel := range sorted {
		data, err := os.ReadFile(filepath.Join(w.root, rel)) //nolint:gosec // Paths are scanned under the profile root
		if err != nil || tokenizer.IsBinary(data) {
			res.Skipped = append(res.Skipped, rel)
			continue
		}

		if _, err := buf.WriteString(header(rel)); err != nil {
			_ = f.Close()
			return Result{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", output)
		}
		if _, err := buf.Write(data); err != nil {
			_ = f.Close()
			return Result{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", output)
		}
		res.Bytes += int64(len(header(rel))) + int64(len(data)) + 1
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_ = buf.WriteByte('\n')
			res.Bytes++
		}
		_ = buf.WriteByte('\n')
		res.Files++
	}

	if err := buf.Flush(); err != nil {
		_ = f.Close()
		return Result{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", output)
	}
	if err := f.Close(); err != nil {
		return Result{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", output)
	}
	return res, nil
}

func header(rel string) string {
	return "==== " + filepath.ToSlash(rel) + " ====\n"
}
