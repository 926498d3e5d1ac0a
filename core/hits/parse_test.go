package hits

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blastpcr/core/fileio"
)

func row(q, s string, mm, length, qs, qe int) string {
	f := []string{q, s, "20", strconv.Itoa(mm), "0", "1e-3", "40.1", "20", strconv.Itoa(length), strconv.Itoa(qs), strconv.Itoa(qe), "ACGT", "1", "20", "ACGT"}
	return strings.Join(f, "\t")
}

func collect(dst *[]Hit) func(Hit) bool {
	return func(h Hit) bool { *dst = append(*dst, h); return false }
}

func TestParse_FilterAndHeader(t *testing.T) {
	in := strings.Join([]string{
		Header,
		row("contig1", "g-F", 0, 20, 10, 29),
		"",
		row("contig1", "g-R", 2, 20, 120, 101), // too many mismatches
		row("contig1", "g-P", 0, 18, 50, 67),   // partial
		Header,
		row("contig2", "g-R", 1, 20, 120, 101),
	}, "\n")

	var got []Hit
	st, err := Parse(strings.NewReader(in), "s1", Filter{
		Lengths:     map[string]int{"g-F": 20, "g-R": 20, "g-P": 20},
		MaxMismatch: 1,
	}, collect(&got))
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 4, Accepted: 2, Rejected: 2}, st)
	require.Len(t, got, 2)
	assert.Equal(t, Hit{Sample: "s1", QueryID: "contig1", SubjectID: "g-F", Start: 10, End: 29, Length: 20, SubjectSeq: "ACGT"}, got[0])
	// minus-strand coordinates are normalised
	assert.Equal(t, 101, got[1].Start)
	assert.Equal(t, 120, got[1].End)
	assert.Equal(t, 1, got[1].Mismatch)
}

func TestParse_MissingPrimer(t *testing.T) {
	in := row("contig1", "g-F", 0, 20, 1, 20) + "\n" + row("contig1", "other-F", 0, 20, 1, 20) + "\n"
	var got []Hit
	_, err := Parse(strings.NewReader(in), "s1", Filter{Lengths: map[string]int{"g-F": 20}}, collect(&got))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingPrimer))
	var mp *MissingPrimerError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, "s1", mp.Sample)
	assert.Equal(t, "other-F", mp.PrimerID)
	assert.Equal(t, 2, mp.Line)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"short":    "contig1\tg-F\t1",
		"notint":   strings.Replace(row("c", "g-F", 0, 20, 1, 20), "\t20\t1\t20\t", "\tx\t1\t20\t", 1),
		"negative": row("c", "g-F", 0, 20, -1, 20),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in), "s", Filter{Lengths: map[string]int{"g-F": 20}}, func(Hit) bool { return false })
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 1, pe.Line)
		})
	}
}

func TestParse_ReplacedCounted(t *testing.T) {
	in := row("c", "g-F", 0, 20, 1, 20) + "\n" + row("c", "g-F", 0, 20, 50, 69) + "\n"
	seen := map[string]bool{}
	st, err := Parse(strings.NewReader(in), "s", Filter{Lengths: map[string]int{"g-F": 20}}, func(h Hit) bool {
		dup := seen[h.SubjectID]
		seen[h.SubjectID] = true
		return dup
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Replaced)
	assert.Equal(t, 2, st.Accepted)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sampleA.fasta.tsv")
	require.NoError(t, os.WriteFile(p, []byte("bad\n"), 0o644))

	_, err := ParseFile(p, "", Filter{}, func(Hit) bool { return false })
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, p, pe.Path)

	_, err = ParseFile(filepath.Join(dir, "nope.tsv"), "", Filter{}, func(Hit) bool { return false })
	assert.True(t, errors.Is(err, fileio.ErrIO))
}

func TestSampleName(t *testing.T) {
	assert.Equal(t, "sampleA", SampleName("/x/y/sampleA.fasta.tsv"))
	assert.Equal(t, "plain", SampleName("plain"))
	assert.Equal(t, ".hidden", SampleName(".hidden"))
}

func TestPrependHeader(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.tsv")
	body := row("c", "g-F", 0, 20, 1, 20) + "\n" + Header + "\n" + row("c", "g-R", 0, 20, 90, 109) + "\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	require.NoError(t, PrependHeader(p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, 1, strings.Count(string(b), "qseqid"))

	// idempotent
	require.NoError(t, PrependHeader(p))
	b2, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(b2))

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
	assert.Equal(t, "s.tsv", entries[0].Name())
}

func TestOutFmt(t *testing.T) {
	assert.True(t, strings.HasPrefix(OutFmt, "6 qseqid sseqid "))
	assert.Len(t, strings.Fields(OutFmt), len(Columns)+1)
}
