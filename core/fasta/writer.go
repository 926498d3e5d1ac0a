package fasta

import (
	"fmt"
	"io"
)

// Write emits one ">id\nseq\n" record.
func Write(w io.Writer, rec Record) error {
	_, err := fmt.Fprintf(w, ">%s\n%s\n", rec.ID, rec.Seq)
	return err
}
