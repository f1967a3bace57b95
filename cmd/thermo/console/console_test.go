package console

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPromptLine(t *testing.T) {
	assert.Equal(t, "write config? [N/y]: ", promptLine("write config?", yesNoConstraints))
	assert.Equal(t, "> ", promptLine("> ", nil))
}

func TestMatchConstraint(t *testing.T) {
	tests := []struct {
		given    string
		expected string
	}{
		{"", No},
		{"y", Yes},
		{" Y ", Yes},
		{"yes", No},
		{"n", No},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			assert.Equal(t, test.expected, matchConstraint(test.given, yesNoConstraints))
		})
	}
}

func TestOutput(t *testing.T) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	defer SetOutput(os.Stdout, os.Stderr)

	Temperature(25)
	Errorf("read failed: %v", errors.New("nack"))

	assert.Equal(t, PictoThermometer+" 25.00 °C\n", out.String())
	assert.Equal(t, "ERROR: read failed: nack\n", errOut.String())
	assert.Equal(t, "ERROR: nack\n", Format(errors.New("nack")))
}

func TestExit(t *testing.T) {
	err := Exit(2, "bad address %q", "0x80")
	assert.Equal(t, 2, err.ExitCode())
	assert.Equal(t, `bad address "0x80"`, err.Error())
}
