package tokenizer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctxpack/ctxpack/internal/adapters/fs"
	"github.com/ctxpack/ctxpack/internal/adapters/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "empty", input: "", want: 0},
		{name: "single short word", input: "hi", want: 1},
		{name: "two words", input: "hello world", want: 4},
		{name: "word rounding", input: "abcd", want: 1},
		{name: "word rounding up", input: "abcde", want: 2},
		{name: "punctuation counts on its own", input: "a.b", want: 3},
		{name: "underscores join words", input: "snake_case_name", want: 4},
		{name: "whitespace is free", input: "  a \n\t b  ", want: 2},
		{name: "braces and parens", input: "f(x) {}", want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenizer.CountTokens([]byte(tt.input)))
		})
	}
}

func TestIsBinary(t *testing.T) {
	assert.False(t, tokenizer.IsBinary([]byte("plain text")))
	assert.False(t, tokenizer.IsBinary(nil))
	assert.True(t, tokenizer.IsBinary([]byte{'a', 0x00, 'b'}))

	// NUL beyond the probe window is not inspected.
	big := make([]byte, 10*1024)
	for i := range big {
		big[i] = 'x'
	}
	big[9*1024] = 0x00
	assert.False(t, tokenizer.IsBinary(big))
}

func TestCounter_Compute(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o644))

	c := tokenizer.NewCounter(root)
	res, err := c.Compute(context.Background(), "main.go")
	require.NoError(t, err)

	assert.Equal(t, tokenizer.CountTokens([]byte("package main")), res.Count)

	// The checksum matches what the scanner would fingerprint.
	sum, err := fs.HashFile(filepath.Join(root, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, sum, res.Checksum)
}

func TestCounter_Compute_BinaryIsZeroTokenSuccess(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x7f, 0x00, 0x01, 0x02}, 0o644))

	c := tokenizer.NewCounter(root)
	res, err := c.Compute(context.Background(), "blob.bin")
	require.NoError(t, err, "binary files are a success, not an error")
	assert.Equal(t, int64(0), res.Count)
	assert.NotEmpty(t, res.Checksum, "the zero count is cacheable against the content checksum")
}

func TestCounter_Compute_MissingFile(t *testing.T) {
	c := tokenizer.NewCounter(t.TempDir())
	_, err := c.Compute(context.Background(), "missing.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestMatcher_Compute(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "code.go"),
		[]byte("func foo() { foo(); foo() }"), 0o644))

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{name: "multiple matches", query: "foo", want: 3},
		{name: "single match", query: "func", want: 1},
		{name: "case insensitive", query: "FOO", want: 3},
		{name: "no match", query: "bar", want: 0},
		{name: "empty query", query: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tokenizer.NewMatcher(root, tt.query)
			res, err := m.Compute(context.Background(), "code.go")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Count)
		})
	}
}

func TestMatcher_Compute_BinaryNeverMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte("foo\x00foo"), 0o644))

	m := tokenizer.NewMatcher(root, "foo")
	res, err := m.Compute(context.Background(), "blob.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Count)
}
