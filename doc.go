// Package windrose computes per-station minimum, mean, and maximum
// statistics over newline-delimited "station;measurement" input, in a
// single pass with a bounded working set, regardless of input size.
//
// # Architecture
//
// The data path is a strict downstream flow:
//
//  1. Sources (pkg/source): local files, S3 objects via ranged reads, and
//     gzip/zstd/lz4 streams.
//
//  2. Scanning (pkg/scan): fixed-capacity chunk reads reassembled at line
//     boundaries by a carry-over protocol, and a segment planner that cuts
//     seekable input into newline-aligned byte ranges for parallel work.
//
//  3. Aggregation (pkg/record, pkg/engine, pkg/aggregate): each line is
//     parsed into a station key and measurement, then folded into a
//     per-worker map of running min/max/sum/count aggregates.
//
//  4. Merge and finalize (pkg/aggregate): shard maps combine through an
//     associative merge; results are sorted by station name with means
//     computed once at the end.
//
// Orchestration lives in internal/pipeline: a sequential strategy for any
// readable stream, and a parallel strategy for random-access sources in
// which independent workers own disjoint segments and share nothing until
// the join barrier before the merge.
//
// Every malformed record, truncated tail (under the strict policy), or
// unplannable segment fails the whole run; there is no skip-and-continue.
package windrose
