package cmd

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestPrintError(t *testing.T) {
	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{
			name:        "normal mode without technical error",
			userMsg:     "User friendly message",
			expectedOut: "User friendly message\n",
		},
		{
			name:         "verbose mode prints technical error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			verbose:      true,
			expectedOut:  "Error: technical details\n",
		},
		{
			name:         "normal mode hides technical error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			expectedOut:  "User friendly message\n",
		},
		{
			name:        "verbose mode without technical error",
			userMsg:     "User friendly message",
			verbose:     true,
			expectedOut: "User friendly message\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			errOut = &buf
			viper.Set("verbose", tt.verbose)
			t.Cleanup(func() {
				errOut = os.Stderr
				viper.Set("verbose", false)
			})

			PrintError(tt.userMsg, tt.technicalErr)
			assert.Equal(t, tt.expectedOut, buf.String())
		})
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	errOut = &buf
	t.Cleanup(func() {
		errOut = os.Stderr
		viper.Set("verbose", false)
	})

	viper.Set("verbose", false)
	LogError("watch local storage", errors.New("boom"))
	assert.Empty(t, buf.String())

	viper.Set("verbose", true)
	LogError("watch local storage", errors.New("boom"))
	LogError("no error", nil)
	assert.Equal(t, "[DEBUG] watch local storage: boom\n[DEBUG] no error\n", buf.String())
}
