// Package pipeline runs a batch: primers are expanded once, every sample is
// aligned, parsed and assembled by a bounded pool of workers, and a single
// reducer writes the report in sample-name order.
//
// The only external contract is aligner.Aligner, so tests can swap in a fake.
package pipeline
