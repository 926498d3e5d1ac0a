// Package api holds the stable JSON wire schema of blastpcr reports.
package api

// AmpliconV1 is the stable JSON/JSONL schema for one amplicon.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type AmpliconV1 struct {
	Sample  string    `json:"sample"`
	Gene    string    `json:"gene"`
	Contig  string    `json:"contig"`
	Start   int       `json:"start"`
	End     int       `json:"end"`
	Size    int       `json:"size"`
	Forward string    `json:"forward_primer"`
	Reverse string    `json:"reverse_primer"`
	FwdMM   int       `json:"fwd_mm"`
	RevMM   int       `json:"rev_mm"`
	Probes  []ProbeV1 `json:"probes,omitempty"`
}

// ProbeV1 is a probe strictly inside its amplicon.
type ProbeV1 struct {
	Probe string `json:"probe"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Size  int    `json:"size"`
	MM    int    `json:"mm"`
}
