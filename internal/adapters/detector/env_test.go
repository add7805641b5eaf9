package detector_test

import (
	"testing"

	"github.com/ctxpack/ctxpack/internal/adapters/detector"
	"github.com/stretchr/testify/assert"
)

func TestDetectEnvironment_CI(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
		want    detector.OutputMode
	}{
		{name: "CI=true forces plain mode", ciValue: "true", want: detector.ModePlain},
		{name: "CI=1 forces plain mode", ciValue: "1", want: detector.ModePlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)
			assert.Equal(t, tt.want, detector.DetectEnvironment())
		})
	}
}

func TestDetectEnvironment_NonTTY(t *testing.T) {
	// Test processes never have a TTY on stdout.
	t.Setenv("CI", "")
	assert.Equal(t, detector.ModePlain, detector.DetectEnvironment())
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.OutputMode
		flag     string
		want     detector.OutputMode
	}{
		{name: "tui override", detected: detector.ModePlain, flag: "tui", want: detector.ModeTUI},
		{name: "plain override", detected: detector.ModeTUI, flag: "plain", want: detector.ModePlain},
		{name: "auto keeps detection", detected: detector.ModeTUI, flag: "auto", want: detector.ModeTUI},
		{name: "empty keeps detection", detected: detector.ModePlain, flag: "", want: detector.ModePlain},
		{name: "unknown keeps detection", detected: detector.ModeTUI, flag: "bogus", want: detector.ModeTUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.detected, tt.flag))
		})
	}
}

func TestOutputMode_String(t *testing.T) {
	assert.Equal(t, "auto", detector.ModeAuto.String())
	assert.Equal(t, "tui", detector.ModeTUI.String())
	assert.Equal(t, "plain", detector.ModePlain.String())
}
