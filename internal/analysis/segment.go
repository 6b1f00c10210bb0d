// Package analysis turns an ordered keystroke event log into typing-pattern
// statistics: segmentation, n-gram frequencies, and timing distributions.
package analysis

import "github.com/ree-see/lurk/internal/model"

// Segment is a maximal contiguous run of events whose adjacent press events
// are no further apart than the gap threshold. Segments never overlap and
// preserve input order.
type Segment struct {
	Events []model.KeyEvent
}

// PressCount returns the number of press events in the segment.
func (s Segment) PressCount() int {
	n := 0
	for _, ev := range s.Events {
		if ev.IsPress() {
			n++
		}
	}
	return n
}

// SplitSegments partitions events into typing segments. A new segment starts
// whenever the gap between consecutive press timestamps exceeds the
// threshold. Gap detection keys off press events only: releases are attached
// to the segment open at their position, so a release trailing its press
// into the next lull does not start a fresh segment. Every event lands in
// exactly one segment.
func SplitSegments(events []model.KeyEvent, gapThresholdMs int64) []Segment {
	if len(events) == 0 {
		return nil
	}

	var segments []Segment
	current := Segment{Events: make([]model.KeyEvent, 0, len(events))}
	var lastPressTs int64
	seenPress := false

	for _, ev := range events {
		if ev.IsPress() {
			if seenPress && ev.Timestamp-lastPressTs > gapThresholdMs {
				segments = append(segments, current)
				current = Segment{}
			}
			lastPressTs = ev.Timestamp
			seenPress = true
		}
		current.Events = append(current.Events, ev)
	}
	segments = append(segments, current)
	return segments
}

// countNonMonotonic counts events whose timestamp does not advance past the
// preceding event's. Duplicates count too: a zero gap yields no usable
// interval sample, and the caller should hear about it. The event source only
// advises monotonicity, so this is a diagnostic, not an error.
func countNonMonotonic(events []model.KeyEvent) int {
	n := 0
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp <= events[i-1].Timestamp {
			n++
		}
	}
	return n
}
