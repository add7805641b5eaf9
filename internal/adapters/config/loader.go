// Package config provides the configuration loader for ctxpack.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/ctxpack/ctxpack/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// profileNamePattern restricts profile names to shell-safe identifiers.
var profileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Packfile represents the structure of the ctxpack.yaml configuration file.
type Packfile struct {
	Version  string                `yaml:"version"`
	Profiles map[string]ProfileDTO `yaml:"profiles"`
}

// ProfileDTO represents a profile definition in the configuration.
type ProfileDTO struct {
	Root     string   `yaml:"root"`
	Excludes []string `yaml:"excludes"`
	Output   string   `yaml:"output"`
}

// Discover walks from dir toward the filesystem root looking for a
// ctxpack.yaml. It returns the directory containing the file.
func Discover(dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "dir", dir)
	}
	for {
		candidate := filepath.Join(cur, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", zerr.With(domain.ErrConfigNotFound, "start", dir)
		}
		cur = parent
	}
}

// Load reads a configuration file from the given directory and returns the
// profiles it defines, sorted by name. Profile roots are resolved relative
// to the configuration directory.
func Load(dir string) ([]domain.Profile, error) {
	path := filepath.Join(dir, domain.ConfigFileName)

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from user cwd
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var packfile Packfile
	if err := yaml.Unmarshal(data, &packfile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if len(packfile.Profiles) == 0 {
		return nil, zerr.With(domain.ErrNoProfiles, "path", path)
	}

	profiles := make([]domain.Profile, 0, len(packfile.Profiles))
	for name, dto := range packfile.Profiles {
		if !profileNamePattern.MatchString(name) {
			return nil, zerr.With(domain.ErrInvalidProfileName, "profile", name)
		}

		root := dto.Root
		if root == "" {
			root = "."
		}
		if !filepath.IsAbs(root) {
			root = filepath.Join(dir, root)
		}

		profiles = append(profiles, domain.Profile{
			Name:     name,
			Root:     root,
			Excludes: append([]string(nil), dto.Excludes...),
			Output:   dto.Output,
		})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

	return profiles, nil
}

// Select returns the named profile, or the first profile when name is empty.
func Select(profiles []domain.Profile, name string) (domain.Profile, error) {
	if name == "" {
		return profiles[0], nil
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Profile{}, zerr.With(domain.ErrProfileNotFound, "profile", name)
}
