package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		confirmer := promptConfirmer(strings.NewReader(tt.input), &out)

		assert.Equal(t, tt.want, confirmer.Ask("Are you sure you want to delete this creator?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Are you sure you want to delete this creator", "input %q", tt.input)
		assert.Contains(t, out.String(), "[y/N]", "input %q", tt.input)
	}
}

func TestPageNavigator(t *testing.T) {
	var out bytes.Buffer
	pageNavigator(&out, "http://localhost:8080/").GoTo("/creator/42")

	assert.Equal(t, "Page: http://localhost:8080/creator/42\n", out.String())
}

func TestPrintFieldErrorsSorted(t *testing.T) {
	var out bytes.Buffer
	printFieldErrors(&out, map[string]string{"url": "cannot be blank", "name": "cannot be blank"})

	assert.Equal(t, "  name: cannot be blank\n  url: cannot be blank\n", out.String())
}
