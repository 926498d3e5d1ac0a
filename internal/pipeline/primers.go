package pipeline

import (
	"fmt"

	"blastpcr/core/primer"
	"blastpcr/internal/summary"
)

// PreparePrimers loads and expands the primer file. Every sequence is
// validated before anything is expanded, so a bad primer stops the batch
// before the aligner is involved.
func PreparePrimers(path string, opt primer.ExpandOptions) ([]primer.Primer, summary.Primers, error) {
	list, err := primer.LoadFile(path)
	if err != nil {
		return nil, summary.Primers{}, err
	}
	if len(list) == 0 {
		return nil, summary.Primers{}, fmt.Errorf("%s: no primers", path)
	}
	expanded, err := primer.ExpandAll(list, opt)
	if err != nil {
		return nil, summary.Primers{}, err
	}
	return expanded, summary.Primers{Loaded: len(list), Expanded: len(expanded)}, nil
}
