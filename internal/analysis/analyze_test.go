package analysis

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ree-see/lurk/internal/model"
)

func TestAnalyzeEmptyInput(t *testing.T) {
	report, err := Analyze(nil, model.DefaultAnalyzeOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.TotalEvents != 0 || report.SegmentCount != 0 || report.AnalyzedEvents != 0 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if len(report.Frequency.Keys) != 0 {
		t.Fatalf("expected empty frequency tables")
	}
	if report.Timing.InterKey != nil {
		t.Fatalf("expected no inter-key data, got %+v", report.Timing.InterKey)
	}
}

func TestAnalyzeInvalidConfig(t *testing.T) {
	opts := model.DefaultAnalyzeOptions()
	opts.GapThresholdMs = 0
	if _, err := Analyze(nil, opts); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	opts = model.DefaultAnalyzeOptions()
	opts.TopN = -1
	if _, err := Analyze(nil, opts); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	opts = model.DefaultAnalyzeOptions()
	opts.MinHoldMs = 500
	opts.MaxHoldMs = 100
	if _, err := Analyze(nil, opts); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAnalyzeBasicScenario(t *testing.T) {
	events := []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(50, 0x00),
		makePress(60, 0x01),
		makeRelease(110, 0x01),
		makePress(5200, 0x00),
		makeRelease(5260, 0x00),
	}
	report, err := Analyze(events, model.DefaultAnalyzeOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.TotalEvents != 6 {
		t.Fatalf("expected 6 total events, got %d", report.TotalEvents)
	}
	if report.SegmentCount != 2 {
		t.Fatalf("expected 2 segments, got %d", report.SegmentCount)
	}
	if report.AnalyzedEvents != 6 {
		t.Fatalf("expected 6 analyzed events, got %d", report.AnalyzedEvents)
	}

	top := report.Frequency.TopKeys(10)
	if len(top) != 2 || top[0].KeyCode != 0x00 || top[0].Count != 2 || top[1].KeyCode != 0x01 || top[1].Count != 1 {
		t.Fatalf("unexpected unigram table: %+v", top)
	}

	if report.Timing.InterKey == nil || report.Timing.InterKey.Count != 1 {
		t.Fatalf("expected exactly 1 inter-key sample, got %+v", report.Timing.InterKey)
	}
	if len(report.Timing.InterKeySamples) != 1 || report.Timing.InterKeySamples[0] != 60 {
		t.Fatalf("unexpected inter-key samples: %v", report.Timing.InterKeySamples)
	}

	var holdSamples []int64
	for _, hold := range report.Timing.Holds {
		holdSamples = append(holdSamples, hold.SamplesMs...)
	}
	if len(holdSamples) != 3 {
		t.Fatalf("expected 3 hold samples, got %v", holdSamples)
	}
	counts := map[int64]int{}
	for _, s := range holdSamples {
		counts[s]++
	}
	if counts[50] != 2 || counts[60] != 1 {
		t.Fatalf("unexpected hold samples: %v", holdSamples)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	events := []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(40, 0x00),
		makePress(90, 0x01),
		makeRelease(150, 0x01),
		makePress(300, 0x02),
		makeRelease(360, 0x02),
		makePress(9000, 0x00),
		makeRelease(9050, 0x00),
	}
	opts := model.DefaultAnalyzeOptions()
	first, err := Analyze(events, opts)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := Analyze(events, opts)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reports differ between identical runs:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeMalformedEvents(t *testing.T) {
	events := []model.KeyEvent{
		makePress(0, 0x00),
		{Timestamp: 20, KeyCode: 0x01, Kind: "bogus"},
		makeRelease(50, 0x00),
		makeRelease(80, 0x05),
	}
	report, err := Analyze(events, model.DefaultAnalyzeOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Diagnostics.MalformedEvents != 1 {
		t.Fatalf("expected 1 malformed event, got %d", report.Diagnostics.MalformedEvents)
	}
	if report.Diagnostics.OrphanReleases != 1 {
		t.Fatalf("expected 1 orphan release, got %d", report.Diagnostics.OrphanReleases)
	}
	for _, hold := range report.Timing.Holds {
		if hold.KeyCode == 0x05 {
			t.Fatalf("orphan release must not produce a hold sample")
		}
	}
}

func TestAnalyzeNonMonotonicWarns(t *testing.T) {
	events := []model.KeyEvent{
		makePress(100, 0x00),
		makePress(50, 0x01),
		makePress(150, 0x02),
	}
	report, err := Analyze(events, model.DefaultAnalyzeOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Diagnostics.NonMonotonicEvents != 1 {
		t.Fatalf("expected 1 non-monotonic event, got %d", report.Diagnostics.NonMonotonicEvents)
	}
	if report.SegmentCount != 1 {
		t.Fatalf("non-monotonic input must not split segments, got %d", report.SegmentCount)
	}
}

func TestAnalyzeDuplicateTimestampWarns(t *testing.T) {
	events := []model.KeyEvent{
		makePress(100, 0x00),
		makePress(100, 0x01),
		makePress(200, 0x02),
	}
	report, err := Analyze(events, model.DefaultAnalyzeOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Diagnostics.NonMonotonicEvents != 1 {
		t.Fatalf("expected duplicate timestamp in diagnostics, got %d", report.Diagnostics.NonMonotonicEvents)
	}
	// The zero-width gap is not a typing-speed sample; only the 100ms
	// interval survives.
	if len(report.Timing.InterKeySamples) != 1 || report.Timing.InterKeySamples[0] != 100 {
		t.Fatalf("unexpected inter-key samples: %v", report.Timing.InterKeySamples)
	}
}

func TestAnalyzeMinSegmentEvents(t *testing.T) {
	events := []model.KeyEvent{
		makePress(0, 0x00),
		makeRelease(40, 0x00),
		makePress(100, 0x01),
		makeRelease(160, 0x01),
		makePress(20000, 0x02),
	}
	opts := model.DefaultAnalyzeOptions()
	opts.MinSegmentEvents = 2
	report, err := Analyze(events, opts)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.TotalEvents != 5 {
		t.Fatalf("expected 5 total events, got %d", report.TotalEvents)
	}
	if report.SegmentCount != 2 {
		t.Fatalf("expected 2 segments, got %d", report.SegmentCount)
	}
	if report.AnalyzedEvents != 4 {
		t.Fatalf("expected the single-event segment excluded, got %d analyzed", report.AnalyzedEvents)
	}
	for _, key := range report.Frequency.Keys {
		if key.KeyCode == 0x02 {
			t.Fatalf("excluded segment leaked into frequency tables")
		}
	}
}
