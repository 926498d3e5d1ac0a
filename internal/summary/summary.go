// Package summary records what a run did in a YAML manifest next to the report.
package summary

import (
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"blastpcr/core/fileio"
	"blastpcr/core/hits"
)

// FileName is the manifest name inside the output directory.
const FileName = "summary.yaml"

// Primers counts the primer table before and after expansion.
type Primers struct {
	Loaded   int `yaml:"loaded"`
	Expanded int `yaml:"expanded"`
}

// Sample is the per-sample outcome.
type Sample struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind,omitempty"`
	Files     []string `yaml:"files,omitempty"`
	Records   int      `yaml:"records"`
	Accepted  int      `yaml:"accepted"`
	Rejected  int      `yaml:"rejected"`
	Replaced  int      `yaml:"replaced,omitempty"`
	Amplicons int      `yaml:"amplicons"`
	Probes    int      `yaml:"probes"`
	Error     string   `yaml:"error,omitempty"`
}

// SetStats copies hit counters into s.
func (s *Sample) SetStats(st hits.Stats) {
	s.Records, s.Accepted, s.Rejected, s.Replaced = st.Records, st.Accepted, st.Rejected, st.Replaced
}

// Summary is the run manifest.
type Summary struct {
	Version    string    `yaml:"version"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Mismatches int       `yaml:"mismatches"`
	Report     string    `yaml:"report,omitempty"`
	Primers    Primers   `yaml:"primers"`
	Amplicons  int       `yaml:"amplicons"`
	Probes     int       `yaml:"probes"`
	Samples    []Sample  `yaml:"samples"`
	Failed     []string  `yaml:"failed,omitempty"`
}

// Finalize sorts samples by name and fills the totals and the failure list.
func (s *Summary) Finalize() {
	sort.Slice(s.Samples, func(i, j int) bool { return s.Samples[i].Name < s.Samples[j].Name })
	s.Amplicons, s.Probes, s.Failed = 0, 0, nil
	for _, smp := range s.Samples {
		s.Amplicons += smp.Amplicons
		s.Probes += smp.Probes
		if smp.Error != "" {
			s.Failed = append(s.Failed, smp.Name)
		}
	}
}

// Encode writes s as YAML.
func Encode(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Write stores s at path atomically.
func Write(path string, s Summary) error {
	return fileio.WriteAtomic(path, func(w io.Writer) error { return Encode(w, s) })
}

// Read loads a manifest.
func Read(path string) (Summary, error) {
	var s Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return s, fileio.Wrap("read", path, err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, err
	}
	return s, nil
}
