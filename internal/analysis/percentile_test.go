package analysis

import "testing"

func TestSummarizeEmpty(t *testing.T) {
	if _, ok := Summarize(nil); ok {
		t.Fatalf("expected no summary for empty samples")
	}
}

func TestSummarizeSingle(t *testing.T) {
	summary, ok := Summarize([]int64{42})
	if !ok {
		t.Fatalf("expected summary")
	}
	if summary.Count != 1 || summary.MedianMs != 42 || summary.P90Ms != 42 || summary.P95Ms != 42 || summary.P99Ms != 42 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.MeanMs != 42.0 {
		t.Fatalf("unexpected mean: %f", summary.MeanMs)
	}
}

func TestSummarizeNearestRank(t *testing.T) {
	samples := []int64{100, 150, 179, 200, 811, 1327, 2000}
	summary, ok := Summarize(samples)
	if !ok {
		t.Fatalf("expected summary")
	}
	if summary.Count != 7 {
		t.Fatalf("expected count 7, got %d", summary.Count)
	}
	if summary.MedianMs != 200 {
		t.Fatalf("expected median 200, got %d", summary.MedianMs)
	}
	if summary.P90Ms != 1327 {
		t.Fatalf("expected p90 1327, got %d", summary.P90Ms)
	}
	if summary.P95Ms != 1327 {
		t.Fatalf("expected p95 1327, got %d", summary.P95Ms)
	}
	if summary.P99Ms != 1327 {
		t.Fatalf("expected p99 1327, got %d", summary.P99Ms)
	}
}

func TestSummarizeUnsortedInputNotModified(t *testing.T) {
	samples := []int64{300, 100, 200}
	summary, ok := Summarize(samples)
	if !ok {
		t.Fatalf("expected summary")
	}
	if summary.MedianMs != 200 {
		t.Fatalf("expected median 200, got %d", summary.MedianMs)
	}
	if samples[0] != 300 || samples[1] != 100 || samples[2] != 200 {
		t.Fatalf("input slice was reordered: %v", samples)
	}
}

func TestSummarizeMean(t *testing.T) {
	summary, ok := Summarize([]int64{100, 200})
	if !ok {
		t.Fatalf("expected summary")
	}
	if summary.MeanMs != 150.0 {
		t.Fatalf("expected mean 150, got %f", summary.MeanMs)
	}
}

func TestPercentileSortedRanks(t *testing.T) {
	sorted := make([]int64, 100)
	for i := range sorted {
		sorted[i] = int64(i + 1)
	}
	if v := percentileSorted(sorted, 50); v < 49 || v > 51 {
		t.Fatalf("unexpected p50: %d", v)
	}
	if v := percentileSorted(sorted, 90); v < 89 || v > 91 {
		t.Fatalf("unexpected p90: %d", v)
	}
	if v := percentileSorted(sorted, 99); v < 98 || v > 100 {
		t.Fatalf("unexpected p99: %d", v)
	}
}
