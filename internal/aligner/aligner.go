// Package aligner runs the external BLAST+ tools that produce tabular hits.
package aligner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"blastpcr/core/hits"
)

// Aligner indexes a primer file and searches one query file against it.
// Both calls block until the tool exits.
type Aligner interface {
	BuildDB(ctx context.Context, primers string) (db string, err error)
	Search(ctx context.Context, db, query, out string) error
}

// ExitError reports a tool that could not start or exited non-zero.
type ExitError struct {
	Tool   string
	Code   int // -1 when the process did not run to completion
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed (exit %d)", e.Tool, e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + lastLines(out, 5)
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

const waitDelay = time.Second

// BLAST drives makeblastdb and blastn.
type BLAST struct {
	BinDir   string // empty: look up on $PATH
	Task     string
	Evalue   float64
	WordSize int
	Threads  int
}

func (b BLAST) tool(name string) string {
	if b.BinDir == "" {
		return name
	}
	return filepath.Join(b.BinDir, name)
}

// Check verifies that both tools can be found.
func (b BLAST) Check() error {
	for _, name := range []string{"makeblastdb", "blastn"} {
		if _, err := exec.LookPath(b.tool(name)); err != nil {
			return &ExitError{Tool: name, Code: -1, Err: err}
		}
	}
	return nil
}

// BuildDB indexes primers as a nucleotide database named after the file.
func (b BLAST) BuildDB(ctx context.Context, primers string) (string, error) {
	args := []string{"-dbtype", "nucl", "-parse_seqids", "-hash_index", "-in", primers, "-out", primers}
	return primers, b.run(ctx, "makeblastdb", args)
}

// SearchArgs is the blastn argument list for one query.
func (b BLAST) SearchArgs(db, query, out string) []string {
	args := []string{
		"-db", db,
		"-query", query,
		"-out", out,
		"-outfmt", hits.OutFmt,
	}
	if b.Task != "" {
		args = append(args, "-task", b.Task)
	}
	if b.Evalue > 0 {
		args = append(args, "-evalue", strconv.FormatFloat(b.Evalue, 'g', -1, 64))
	}
	if b.WordSize > 0 {
		args = append(args, "-word_size", strconv.Itoa(b.WordSize))
	}
	if b.Threads > 0 {
		args = append(args, "-num_threads", strconv.Itoa(b.Threads))
	}
	return args
}

// Search runs blastn for query against db and writes tabular output to out.
func (b BLAST) Search(ctx context.Context, db, query, out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return b.run(ctx, "blastn", b.SearchArgs(db, query, out))
}

func (b BLAST) run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, b.tool(name), args...)
	// children that inherit the output pipe must not hold up cancellation
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	code := -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
		err = nil
	}
	return &ExitError{Tool: name, Code: code, Output: string(output), Err: err}
}
