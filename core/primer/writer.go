package primer

import (
	"io"

	"blastpcr/core/fasta"
	"blastpcr/core/fileio"
)

// WriteFASTA writes list as ">id\nseq" records in order.
func WriteFASTA(w io.Writer, list []Primer) error {
	for _, p := range list {
		if err := fasta.Write(w, fasta.Record{ID: p.ID, Seq: []byte(p.Seq)}); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile atomically writes the clean primer file consumed by the aligner.
func WriteFile(path string, list []Primer) error {
	return fileio.WriteAtomic(path, func(w io.Writer) error { return WriteFASTA(w, list) })
}
