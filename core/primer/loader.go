package primer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"blastpcr/core/fileio"
)

// Normalize removes whitespace/quotes and upper-cases bases.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)
}

// LoadFile reads a primer file. FASTA input (first non-blank line starts with
// '>') yields one primer per record. Anything else is read as a TSV of
// "id fwd rev [probe]" rows, which become "<id>-F", "<id>-R" and "<id>-P".
// Sequences are normalized but not validated.
func LoadFile(path string) ([]Primer, error) {
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	br := bufio.NewReader(rc)
	var list []Primer
	if isFASTA(br) {
		list, err = ReadFASTA(br)
	} else {
		list, err = ReadTSV(br)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return list, nil
}

func isFASTA(br *bufio.Reader) bool {
	for n := 1; ; n++ {
		b, err := br.Peek(n)
		if err != nil || len(b) < n {
			return false
		}
		switch c := b[n-1]; c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c == '>'
		}
	}
}

// ReadFASTA parses ">id" header lines followed by one or more sequence lines.
func ReadFASTA(r io.Reader) ([]Primer, error) {
	sc := bufio.NewScanner(r)
	var (
		list []Primer
		cur  *Primer
		ln   int
	)
	for sc.Scan() {
		ln++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			f := strings.Fields(string(line[1:]))
			if len(f) == 0 {
				return nil, fmt.Errorf("line %d: empty primer id", ln)
			}
			list = append(list, Primer{ID: f[0]})
			cur = &list[len(list)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("line %d: sequence before first '>' header", ln)
		}
		cur.Seq += Normalize(string(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ReadTSV parses whitespace-separated "id fwd rev [probe]" rows; '#' starts a
// comment line.
func ReadTSV(r io.Reader) ([]Primer, error) {
	sc := bufio.NewScanner(r)
	var list []Primer
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 3 || len(f) > 4 {
			return nil, fmt.Errorf("line %d: bad field count %d (want id fwd rev [probe])", ln, len(f))
		}
		list = append(list,
			Primer{ID: f[0] + "-F", Seq: Normalize(f[1])},
			Primer{ID: f[0] + "-R", Seq: Normalize(f[2])},
		)
		if len(f) == 4 {
			list = append(list, Primer{ID: f[0] + "-P", Seq: Normalize(f[3])})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
