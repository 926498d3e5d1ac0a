// Package writers turns amplicon records into serialized reports.
//
// The TSV layout lives in core/report; JSON and JSONL go through pkg/api (v1)
// for a stable wire format. Writers run in their own goroutine and are fed
// through a channel by the pipeline's serial reducer.
package writers
