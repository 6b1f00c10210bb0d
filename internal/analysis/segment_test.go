package analysis

import (
	"testing"

	"github.com/ree-see/lurk/internal/model"
)

func makePress(ts int64, key uint32) model.KeyEvent {
	return model.KeyEvent{Timestamp: ts, KeyCode: key, Kind: model.KindPress, Application: "com.test.app"}
}

func makeRelease(ts int64, key uint32) model.KeyEvent {
	return model.KeyEvent{Timestamp: ts, KeyCode: key, Kind: model.KindRelease, Application: "com.test.app"}
}

func TestSplitSegmentsEmpty(t *testing.T) {
	segments := SplitSegments(nil, 5000)
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(segments))
	}
}

func TestSplitSegmentsSingleEvent(t *testing.T) {
	segments := SplitSegments([]model.KeyEvent{makePress(100, 0x00)}, 5000)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if len(segments[0].Events) != 1 {
		t.Fatalf("expected 1 event in segment, got %d", len(segments[0].Events))
	}
}

func TestSplitSegmentsContinuous(t *testing.T) {
	events := []model.KeyEvent{
		makePress(100, 0x00),
		makePress(200, 0x01),
		makePress(300, 0x02),
	}
	segments := SplitSegments(events, 5000)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if len(segments[0].Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(segments[0].Events))
	}
}

func TestSplitSegmentsWithBreak(t *testing.T) {
	events := []model.KeyEvent{
		makePress(100, 0x00),
		makePress(200, 0x01),
		makePress(10000, 0x02),
		makePress(10100, 0x03),
	}
	segments := SplitSegments(events, 5000)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if len(segments[0].Events) != 2 || len(segments[1].Events) != 2 {
		t.Fatalf("unexpected segment sizes: %d and %d", len(segments[0].Events), len(segments[1].Events))
	}
}

func TestSplitSegmentsEveryEventAssignedOnce(t *testing.T) {
	events := []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(40, 0x00),
		makePress(100, 0x01),
		makeRelease(160, 0x01),
		makePress(9000, 0x02),
		makeRelease(9050, 0x02),
		makePress(20000, 0x00),
	}
	segments := SplitSegments(events, 5000)
	total := 0
	var lastTs int64 = -1
	for _, seg := range segments {
		total += len(seg.Events)
		for _, ev := range seg.Events {
			if ev.Timestamp < lastTs {
				t.Fatalf("segments reordered events: %d after %d", ev.Timestamp, lastTs)
			}
			lastTs = ev.Timestamp
		}
	}
	if total != len(events) {
		t.Fatalf("expected %d events across segments, got %d", len(events), total)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
}

func TestSplitSegmentsGapKeysOffPresses(t *testing.T) {
	// The release arrives long after its press; only the press-to-press gap
	// decides the boundary, so everything stays in one segment.
	events := []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(6000, 0x00),
		makePress(7000, 0x01),
	}
	segments := SplitSegments(events, 10000)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
}

func TestSplitSegmentsLateReleaseJoinsOpenSegment(t *testing.T) {
	// A release trailing into an idle gap stays with the segment of its
	// press; the next press still opens a fresh segment.
	events := []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(8000, 0x00),
		makePress(8100, 0x01),
		makeRelease(8150, 0x01),
	}
	segments := SplitSegments(events, 5000)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if len(segments[0].Events) != 2 {
		t.Fatalf("expected release to stay in first segment, got %d events", len(segments[0].Events))
	}
}

func TestCountNonMonotonic(t *testing.T) {
	// Both the backwards timestamp and the duplicate count: neither yields a
	// usable interval.
	events := []model.KeyEvent{
		makePress(100, 0x00),
		makePress(50, 0x01),
		makePress(50, 0x02),
		makePress(200, 0x03),
	}
	if n := countNonMonotonic(events); n != 2 {
		t.Fatalf("expected 2 non-monotonic events, got %d", n)
	}
}

func TestSegmentPressCount(t *testing.T) {
	seg := Segment{Events: []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(50, 0x00),
		makePress(100, 0x01),
	}}
	if n := seg.PressCount(); n != 2 {
		t.Fatalf("expected 2 presses, got %d", n)
	}
}
