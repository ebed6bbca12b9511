// Package pipeline runs the analysis of one JSONL source as a sequence of
// steps.
//
// The default pipeline has three steps:
//  1. load: read the source into memory (fatal on file access errors)
//  2. aggregate: parse every non-blank line and feed the aggregator,
//     tallying lines that fail to parse
//  3. summarize: derive missing-key rows and the combination ranking and
//     build the model.Summary
//
// Each step receives the shared *Run and fills in its part. The pipeline
// is synchronous and single-threaded; there is no cancellation surface.
// Steps log their outcomes; the analyzer and record packages they call
// do not log.
package pipeline
