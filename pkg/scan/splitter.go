// Package scan implements windrose's streaming read path: the line
// boundary splitter, the chunk reader with its carry-over protocol, and
// the segment planner for parallel processing.
//
// All three share one invariant: a cut point is always the byte
// immediately after a newline, so every buffer handed downstream consists
// of complete lines. The same backward newline scan backs both the
// carry-over protocol and the planner, keeping their behavior consistent.
package scan

import "bytes"

// SplitLines returns the longest prefix of buf consisting of complete
// lines (including the final newline) and the remaining partial line.
//
// When buf contains no newline at all, complete is empty and partial is
// the whole buffer. That is a valid result, not an error: it occurs when
// a single line is longer than the read window, and the caller grows its
// window by carrying the partial over to the next read.
func SplitLines(buf []byte) (complete, partial []byte) {
	idx := bytes.LastIndexByte(buf, '\n')
	if idx < 0 {
		return buf[:0], buf
	}
	return buf[:idx+1], buf[idx+1:]
}
