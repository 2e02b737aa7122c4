// Package pipeline runs the stages of an embeddability run.
//
// BatchProber probes many URLs concurrently with errgroup.SetLimit and
// writes each report into the slot of its input position, so the output
// order always matches the input order. One URL's failure never affects the
// others; cancelling the parent context turns every unfinished probe into
// an error report instead of leaving a gap.
//
// Pipeline executes Steps in sequence over a shared Run:
//
//	CatalogStep -> ProbeStep -> ClassifyStep
//
// Each step writes its boundary file (channels, probe reports, accepted
// list) when given a path, so a full run leaves the same artifacts as
// running the stages one by one.
package pipeline
