package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/loykin/svcwatch/internal/service"
)

func main() {
	root := buildRoot(command{
		newController: service.New,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
	})
	err := root.Execute()
	os.Exit(exitCode(err, os.Stderr))
}

// reportedError marks an error that was already written to the log.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// exitCode maps a command error to the process exit status, printing errors
// that did not pass through the logger.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var r reportedError
	if !errors.As(err, &r) {
		_, _ = fmt.Fprintln(stderr, err)
	}
	return 1
}
