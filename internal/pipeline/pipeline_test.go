package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blastpcr/core/fileio"
	"blastpcr/core/hits"
	"blastpcr/core/primer"
	"blastpcr/core/report"
	"blastpcr/internal/aligner"
	"blastpcr/internal/summary"
)

// fakeAligner answers Search with canned rows keyed by sample name.
type fakeAligner struct {
	mu      sync.Mutex
	rows    map[string][]string
	fail    map[string]error
	queries map[string]string
	dbErr   error
}

func (f *fakeAligner) BuildDB(_ context.Context, primers string) (string, error) {
	if f.dbErr != nil {
		return "", f.dbErr
	}
	return primers, nil
}

func (f *fakeAligner) Search(_ context.Context, _, query, out string) error {
	name := strings.TrimSuffix(filepath.Base(out), ".tsv")
	q, err := os.ReadFile(query)
	if err != nil {
		return err
	}
	f.mu.Lock()
	if f.queries == nil {
		f.queries = map[string]string{}
	}
	f.queries[name] = string(q)
	f.mu.Unlock()
	if err := f.fail[name]; err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, []byte(strings.Join(f.rows[name], "\n")+"\n"), 0o644)
}

func blastRow(contig, primerID string, length, mm, qs, qe int) string {
	return strings.Join([]string{
		contig, primerID, "20", strconv.Itoa(mm), "0", "0.01", "40", "20", strconv.Itoa(length),
		strconv.Itoa(qs), strconv.Itoa(qe), "ACGT", "1", "20", "ACGT",
	}, "\t")
}

const primersFASTA = ">G-F\nACGTACGTACGTACGTACGT\n>G-R\nACGTACGTACGTACGTACGN\n>G-P\nTTTTTTTTTTTTTTTTTTTT\n"

type fixture struct {
	dir, primers, input, out string
}

func setup(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	fx := fixture{
		dir:     dir,
		primers: filepath.Join(dir, "primers.fasta"),
		input:   filepath.Join(dir, "reads"),
		out:     filepath.Join(dir, "out"),
	}
	require.NoError(t, os.WriteFile(fx.primers, []byte(primersFASTA), 0o644))
	require.NoError(t, os.MkdirAll(fx.input, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fx.input, "s2.fasta"), []byte(">contig1\nACGT\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(fx.input, "s1_R1.fastq"), []byte("@r1\nACGT\n+\nIIII\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(fx.input, "s1_R2.fastq"), []byte("@r2\nTTTT\n+\nIIII\n"), 0o644))
	return fx
}

func TestRun_EndToEnd(t *testing.T) {
	fx := setup(t)
	al := &fakeAligner{rows: map[string][]string{
		"s1": {
			blastRow("contig1", "G-F", 20, 0, 10, 29),
			hits.Header,
			blastRow("contig1", "G-R_3", 20, 1, 120, 101),
			blastRow("contig1", "G-P", 20, 0, 50, 69),
			blastRow("contig1", "G-R_0", 18, 0, 200, 183), // partial
		},
		"s2": {
			blastRow("contigA", "G-F", 20, 0, 10, 29),
			blastRow("contigB", "G-R_0", 20, 0, 100, 119),
		},
	}}
	cfg := Config{OutDir: fx.out, Mismatches: 1, Workers: 2, Format: "tsv"}
	res, err := Run(context.Background(), cfg, al, fx.primers, fx.input)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Amplicons)
	assert.Equal(t, 1, res.Probes)
	assert.Equal(t, filepath.Join(fx.out, "report.tsv"), res.Report)

	b, err := os.ReadFile(res.Report)
	require.NoError(t, err)
	rows, err := report.ReadTSV(bytes.NewReader(b))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, report.Row{Sample: "s1", Gene: "G", Location: "10-120", Size: "111", Contig: "contig1", Forward: "G-F", Reverse: "G-R_3", ForwardMM: "0", ReverseMM: "1"}, rows[0])
	assert.Equal(t, "s1_probe", rows[1].Sample)

	// clean primers: G-R expanded in place, four variants
	clean, err := primer.LoadFile(filepath.Join(fx.out, CleanPrimersName))
	require.NoError(t, err)
	require.Len(t, clean, 6)
	assert.Equal(t, "G-R_0", clean[1].ID)
	assert.Equal(t, "G-P", clean[5].ID)

	// FASTQ pair became one query FASTA in sorted file order
	assert.Equal(t, ">r1\nACGT\n>r2\nTTTT\n", al.queries["s1"])

	// aligner output has exactly one header, first
	det, err := os.ReadFile(filepath.Join(fx.out, DetailedDir, "s1", "s1.tsv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(det), hits.Header+"\n"))
	assert.Equal(t, 1, strings.Count(string(det), "qseqid"))

	sum, err := summary.Read(filepath.Join(fx.out, summary.FileName))
	require.NoError(t, err)
	assert.Equal(t, summary.Primers{Loaded: 3, Expanded: 6}, sum.Primers)
	require.Len(t, sum.Samples, 2)
	assert.Equal(t, "s1", sum.Samples[0].Name)
	assert.Equal(t, "fastq", sum.Samples[0].Kind)
	assert.Equal(t, 3, sum.Samples[0].Accepted)
	assert.Equal(t, 1, sum.Samples[0].Rejected)
	assert.Empty(t, sum.Failed)
}

func TestRun_InvalidPrimerStopsEarly(t *testing.T) {
	fx := setup(t)
	require.NoError(t, os.WriteFile(fx.primers, []byte(">G-F\nATXG\n"), 0o644))
	al := &fakeAligner{}
	_, err := Run(context.Background(), Config{OutDir: fx.out, Format: "tsv"}, al, fx.primers, fx.input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, primer.ErrInvalidSequence))
	assert.NoFileExists(t, filepath.Join(fx.out, CleanPrimersName))
	assert.NoFileExists(t, filepath.Join(fx.out, "report.tsv"))
	assert.Empty(t, al.queries)
}

func TestRun_SampleFailuresAreIsolated(t *testing.T) {
	fx := setup(t)
	al := &fakeAligner{
		rows: map[string][]string{
			"s2": {
				blastRow("contig1", "G-F", 20, 0, 10, 29),
				blastRow("contig1", "G-R_0", 20, 0, 100, 119),
				blastRow("contig1", "ghost-F", 20, 0, 1, 20),
			},
		},
		fail: map[string]error{"s1": &aligner.ExitError{Tool: "blastn", Code: 2}},
	}
	res, err := Run(context.Background(), Config{OutDir: fx.out, Format: "jsonl"}, al, fx.primers, fx.input)
	require.Error(t, err)

	var ee *aligner.ExitError
	assert.ErrorAs(t, err, &ee)
	assert.True(t, errors.Is(err, hits.ErrMissingPrimer))
	var se *SampleError
	require.ErrorAs(t, err, &se)

	assert.FileExists(t, res.Report)
	assert.Equal(t, []string{"s1", "s2"}, res.Summary.Failed)
	assert.Equal(t, 0, res.Amplicons)
}

func TestRun_BuildDBFailure(t *testing.T) {
	fx := setup(t)
	al := &fakeAligner{dbErr: &aligner.ExitError{Tool: "makeblastdb", Code: 1}}
	_, err := Run(context.Background(), Config{OutDir: fx.out}, al, fx.primers, fx.input)
	var ee *aligner.ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "makeblastdb", ee.Tool)
}

func TestRun_Canceled(t *testing.T) {
	fx := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{OutDir: fx.out}, &fakeAligner{}, fx.primers, fx.input)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, filepath.Join(fx.out, "report.tsv"))
}

func TestRun_DropIntermediate(t *testing.T) {
	fx := setup(t)
	al := &fakeAligner{}
	_, err := Run(context.Background(), Config{OutDir: fx.out, KeepIntermediate: false}, al, fx.primers, fx.input)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(fx.out, DetailedDir, "s1", "s1.query.fasta"))
	assert.FileExists(t, filepath.Join(fx.out, DetailedDir, "s1", "s1.tsv"))
	// the input FASTA of s2 is used directly and never removed
	assert.FileExists(t, filepath.Join(fx.input, "s2.fasta"))
}

func TestAssembleDir(t *testing.T) {
	fx := setup(t)
	hitsDir := filepath.Join(fx.dir, "hits")
	require.NoError(t, os.MkdirAll(filepath.Join(hitsDir, "b"), 0o755))
	body := hits.Header + "\n" + blastRow("c", "G-F", 20, 0, 5, 24) + "\n" + blastRow("c", "G-R_1", 20, 0, 80, 99) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(hitsDir, "b", "b.tsv"), []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(hitsDir, "a.fasta.tsv"), []byte(body), 0o644))

	files, err := FindHitFiles(hitsDir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].Sample)

	res, err := AssembleDir(context.Background(), Config{OutDir: fx.out, Format: "tsv"}, fx.primers, hitsDir)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Amplicons)

	b, err := os.ReadFile(res.Report)
	require.NoError(t, err)
	rows, err := report.ReadTSV(bytes.NewReader(b))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Sample)
	assert.Equal(t, "b", rows[1].Sample)
	assert.Equal(t, "5-99", rows[0].Location)
}

func TestFindHitFiles_Duplicate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x", "x.tsv"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.tsv"), nil, 0o644))
	_, err := FindHitFiles(dir)
	assert.Error(t, err)

	_, err = FindHitFiles(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, fileio.ErrIO))
}

func TestFindHitFiles_FlatNames(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"S1.v2.tsv", "s2.fastq.gz.tsv", "s3_R1.fa.tsv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}
	files, err := FindHitFiles(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Sample)
	}
	assert.Equal(t, []string{"S1.v2", "s2", "s3"}, names)
}

func TestConfigWorkers(t *testing.T) {
	assert.Equal(t, 1, Config{Workers: 8}.workers(1))
	assert.Equal(t, 3, Config{Workers: 3}.workers(10))
	assert.GreaterOrEqual(t, Config{}.workers(4), 1)
	assert.Equal(t, "report.json", filepath.Base(Config{Format: "json"}.ReportPath()))
	assert.Equal(t, "report.tsv", filepath.Base(Config{}.ReportPath()))
}
