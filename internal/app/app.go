// Package app runs the blastpcr command line and maps outcomes to exit codes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"blastpcr/core/primer"
	"blastpcr/internal/cli"
	"blastpcr/internal/config"
	"blastpcr/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// RunContext executes argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := cli.NewRootCmd(stdout, stderr)
	root.SetArgs(argv)
	err := root.ExecuteContext(ctx)
	code := ExitCode(err)
	if err != nil && code != ExitOK && !isNoMatch(err) && !writers.IsBrokenPipe(err) {
		_, _ = fmt.Fprintln(stderr, "blastpcr:", err)
	}
	return code
}

func isNoMatch(err error) bool {
	var nm *cli.NoMatchError
	return errors.As(err, &nm)
}

// ExitCode classifies err: 0 ok, 2 usage or validation, 3 runtime,
// 130 canceled, or the configured no-match code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var nm *cli.NoMatchError
	var ue *cli.UsageError
	switch {
	case errors.As(err, &nm):
		return nm.Code
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case writers.IsBrokenPipe(err):
		return ExitOK
	case errors.As(err, &ue),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, primer.ErrInvalidSequence),
		strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	}
	return ExitRuntime
}
