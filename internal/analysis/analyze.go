package analysis

import (
	"errors"
	"fmt"

	"github.com/ree-see/lurk/internal/model"
)

// ErrInvalidConfig marks analysis configuration errors. The wrapped message
// names the offending option and value.
var ErrInvalidConfig = errors.New("invalid analysis configuration")

// Diagnostics counts input anomalies that were tolerated, not fatal.
type Diagnostics struct {
	// MalformedEvents is the number of events dropped before analysis
	// because their kind was neither press nor release.
	MalformedEvents int
	// NonMonotonicEvents counts events whose timestamp ran backwards.
	NonMonotonicEvents int
	// OrphanReleases counts releases with no unmatched press to pair with.
	OrphanReleases int
	// AbandonedPresses counts presses displaced by a repeat press of the
	// same key before any release arrived.
	AbandonedPresses int
}

// Report is the immutable result of one analysis run. Re-running the engine
// on the same events and options produces an identical report.
type Report struct {
	TotalEvents    int
	SegmentCount   int
	AnalyzedEvents int

	Frequency FrequencyTables
	Timing    TimingTables

	Diagnostics Diagnostics
	Options     model.AnalyzeOptions
}

// Analyze runs the full engine over an ordered event batch: validate
// options, drop malformed events, segment by press gaps, then count
// frequencies and timing distributions. It is a pure batch computation with
// no I/O; the caller owns fetching a consistent event snapshot.
func Analyze(events []model.KeyEvent, opts model.AnalyzeOptions) (*Report, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	report := &Report{
		TotalEvents: len(events),
		Options:     opts,
	}

	wellFormed := make([]model.KeyEvent, 0, len(events))
	for _, ev := range events {
		if !ev.IsPress() && !ev.IsRelease() {
			report.Diagnostics.MalformedEvents++
			continue
		}
		wellFormed = append(wellFormed, ev)
	}
	report.Diagnostics.NonMonotonicEvents = countNonMonotonic(wellFormed)

	segments := SplitSegments(wellFormed, opts.GapThresholdMs)
	report.SegmentCount = len(segments)

	analyzed := segments
	if opts.MinSegmentEvents > 0 {
		analyzed = make([]Segment, 0, len(segments))
		for _, seg := range segments {
			if len(seg.Events) >= opts.MinSegmentEvents {
				analyzed = append(analyzed, seg)
			}
		}
	}
	for _, seg := range analyzed {
		report.AnalyzedEvents += len(seg.Events)
	}

	report.Frequency = CountFrequencies(analyzed)
	timing := AnalyzeTiming(analyzed, opts)
	report.Diagnostics.OrphanReleases = timing.OrphanReleases
	report.Diagnostics.AbandonedPresses = timing.AbandonedPresses
	report.Timing = timing

	return report, nil
}

func validateOptions(opts model.AnalyzeOptions) error {
	if opts.GapThresholdMs <= 0 {
		return fmt.Errorf("%w: gap-threshold-ms must be positive, got %d", ErrInvalidConfig, opts.GapThresholdMs)
	}
	if opts.TopN <= 0 {
		return fmt.Errorf("%w: top-n must be positive, got %d", ErrInvalidConfig, opts.TopN)
	}
	if opts.MinSegmentEvents < 0 {
		return fmt.Errorf("%w: min-segment-events must not be negative, got %d", ErrInvalidConfig, opts.MinSegmentEvents)
	}
	if opts.MinHoldMs < 0 {
		return fmt.Errorf("%w: min-hold-ms must not be negative, got %d", ErrInvalidConfig, opts.MinHoldMs)
	}
	if opts.MaxHoldMs < 0 {
		return fmt.Errorf("%w: max-hold-ms must not be negative, got %d", ErrInvalidConfig, opts.MaxHoldMs)
	}
	if opts.MinHoldMs > 0 && opts.MaxHoldMs > 0 && opts.MinHoldMs > opts.MaxHoldMs {
		return fmt.Errorf("%w: min-hold-ms %d exceeds max-hold-ms %d", ErrInvalidConfig, opts.MinHoldMs, opts.MaxHoldMs)
	}
	return nil
}
