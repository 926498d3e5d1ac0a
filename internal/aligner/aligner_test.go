package aligner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTools writes shell stand-ins for makeblastdb and blastn into a temp dir.
func fakeTools(t *testing.T, blastn string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stand-ins need a POSIX shell")
	}
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755))
	}
	write("makeblastdb", `echo "$@" > "$(dirname "$0")/makeblastdb.args"`+"\n")
	write("blastn", blastn)
	return dir
}

func TestSearchArgs(t *testing.T) {
	b := BLAST{Task: "blastn-short", Evalue: 1000, WordSize: 7, Threads: 2}
	got := strings.Join(b.SearchArgs("db", "q.fasta", "o.tsv"), " ")
	assert.Contains(t, got, "-outfmt 6 qseqid sseqid positive")
	assert.Contains(t, got, "-task blastn-short")
	assert.Contains(t, got, "-evalue 1000")
	assert.Contains(t, got, "-word_size 7")
	assert.Contains(t, got, "-num_threads 2")

	assert.NotContains(t, strings.Join(BLAST{}.SearchArgs("db", "q", "o"), " "), "-task")
}

func TestBuildDBAndSearch(t *testing.T) {
	dir := fakeTools(t, `
while [ $# -gt 0 ]; do
  case "$1" in -out) out="$2"; shift;; esac
  shift
done
printf 'c1\tg-F\t20\t0\t0\t1\t40\t20\t20\t1\t20\tA\t1\t20\tA\n' > "$out"
`)
	b := BLAST{BinDir: dir}
	require.NoError(t, b.Check())

	db, err := b.BuildDB(context.Background(), "/x/primers.fasta")
	require.NoError(t, err)
	assert.Equal(t, "/x/primers.fasta", db)
	args, err := os.ReadFile(filepath.Join(dir, "makeblastdb.args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "-dbtype nucl -parse_seqids")

	out := filepath.Join(t.TempDir(), "s1", "s1.tsv")
	require.NoError(t, b.Search(context.Background(), db, "q.fasta", out))
	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "c1\tg-F"))
}

func TestSearch_ExitError(t *testing.T) {
	dir := fakeTools(t, "echo 'BLAST Database error: No alias or index file found' >&2\nexit 2\n")
	err := BLAST{BinDir: dir}.Search(context.Background(), "db", "q", filepath.Join(t.TempDir(), "o.tsv"))
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "blastn", ee.Tool)
	assert.Equal(t, 2, ee.Code)
	assert.Contains(t, ee.Error(), "No alias or index file")
}

func TestSearch_Canceled(t *testing.T) {
	dir := fakeTools(t, "sleep 5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := BLAST{BinDir: dir}.Search(ctx, "db", "q", filepath.Join(t.TempDir(), "o.tsv"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCheck_Missing(t *testing.T) {
	err := BLAST{BinDir: t.TempDir()}.Check()
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, -1, ee.Code)
}
