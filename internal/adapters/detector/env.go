// Package detector decides whether the process can drive an interactive
// terminal session.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results are rendered.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeTUI runs the interactive picker.
	ModeTUI
	// ModePlain runs the non-interactive one-shot path.
	ModePlain
)

// String implements fmt.Stringer for log output.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}

// DetectEnvironment recommends a mode for the current process. CI builds and
// piped stdout both rule out the interactive picker.
func DetectEnvironment() OutputMode {
	if inCI() || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModePlain
	}
	return ModeTUI
}

func inCI() bool {
	switch os.Getenv("CI") {
	case "true", "1":
		return true
	}
	return false
}

// ResolveMode lets an explicit flag override detection; "auto", empty, and
// unknown values keep the detected mode.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case "tui":
		return ModeTUI
	case "plain":
		return ModePlain
	}
	return detected
}
