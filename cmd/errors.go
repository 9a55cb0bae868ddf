/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
)

// errOut is where PrintError and LogError write. Tests replace it.
var errOut io.Writer = os.Stderr

// PrintError prints an error message without exiting, allowing for recovery.
// With --verbose the underlying technical error is printed instead.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(errOut, "Error: %v\n", technicalErr)
		return
	}
	fmt.Fprintln(errOut, userMsg)
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if !viper.GetBool("verbose") {
		return
	}
	if err != nil {
		fmt.Fprintf(errOut, "[DEBUG] %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(errOut, "[DEBUG] %s\n", msg)
	}
}
