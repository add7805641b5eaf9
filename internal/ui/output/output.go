// Package output builds termenv outputs with a shared color profile policy.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile picks the profile for terminal rendering. NO_COLOR wins over
// whatever the terminal advertises.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New wraps w in a termenv.Output carrying the shared profile. A nil writer
// falls back to stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	base := []termenv.OutputOption{
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	}
	return termenv.NewOutput(w, append(base, opts...)...)
}
