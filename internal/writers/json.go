package writers

import (
	"bufio"
	"encoding/json"
	"io"

	"blastpcr/core/amplicon"
	"blastpcr/pkg/api"
)

// ToAPI converts a record to the stable wire schema (v1).
func ToAPI(rec amplicon.Record) api.AmpliconV1 {
	v := api.AmpliconV1{
		Sample:  rec.Sample,
		Gene:    rec.Gene,
		Contig:  rec.Contig,
		Start:   rec.Start,
		End:     rec.End,
		Size:    rec.Size,
		Forward: rec.Forward,
		Reverse: rec.Reverse,
		FwdMM:   rec.ForwardMM,
		RevMM:   rec.ReverseMM,
	}
	for _, p := range rec.Probes {
		v.Probes = append(v.Probes, api.ProbeV1{Probe: p.Probe, Start: p.Start, End: p.End, Size: p.Size, MM: p.Mismatch})
	}
	return v
}

// streamJSON buffers every record and writes one indented JSON array.
func streamJSON(w io.Writer, in <-chan amplicon.Record) error {
	list := []api.AmpliconV1{}
	for rec := range in {
		list = append(list, ToAPI(rec))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

// streamJSONL writes one JSON object per line as records arrive.
func streamJSONL(w io.Writer, in <-chan amplicon.Record) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	enc := json.NewEncoder(bw)
	var err error
	for rec := range in {
		if err != nil {
			continue
		}
		err = enc.Encode(ToAPI(rec))
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}
