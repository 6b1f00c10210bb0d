package analysis

import (
	"testing"

	"github.com/ree-see/lurk/internal/model"
)

func segmentsOf(events ...model.KeyEvent) []Segment {
	return SplitSegments(events, model.DefaultGapThresholdMs)
}

func TestCountFrequenciesEmpty(t *testing.T) {
	tables := CountFrequencies(nil)
	if tables.TotalPresses != 0 {
		t.Fatalf("expected 0 presses, got %d", tables.TotalPresses)
	}
	if len(tables.Keys) != 0 || len(tables.Bigrams) != 0 || len(tables.Trigrams) != 0 {
		t.Fatalf("expected empty tables, got %+v", tables)
	}
}

func TestCountFrequenciesKeys(t *testing.T) {
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makePress(200, 0x00),
		makePress(300, 0x01),
	))
	if tables.TotalPresses != 3 {
		t.Fatalf("expected 3 presses, got %d", tables.TotalPresses)
	}
	top := tables.TopKeys(10)
	if top[0].KeyCode != 0x00 || top[0].Count != 2 {
		t.Fatalf("unexpected top key: %+v", top[0])
	}
	if top[1].KeyCode != 0x01 || top[1].Count != 1 {
		t.Fatalf("unexpected second key: %+v", top[1])
	}
	if top[0].KeyName != "A" {
		t.Fatalf("expected key name A, got %q", top[0].KeyName)
	}
}

func TestCountFrequenciesIgnoresReleases(t *testing.T) {
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makeRelease(150, 0x00),
		makePress(200, 0x01),
		makeRelease(250, 0x01),
	))
	if tables.TotalPresses != 2 {
		t.Fatalf("expected 2 presses, got %d", tables.TotalPresses)
	}
	bigrams := tables.TopBigrams(10)
	if len(bigrams) != 1 || bigrams[0].FirstKey != 0x00 || bigrams[0].SecondKey != 0x01 {
		t.Fatalf("unexpected bigrams: %+v", bigrams)
	}
}

func TestCountFrequenciesBigrams(t *testing.T) {
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makePress(200, 0x01),
		makePress(300, 0x00),
		makePress(400, 0x01),
	))
	bigrams := tables.TopBigrams(10)
	if len(bigrams) == 0 {
		t.Fatalf("expected bigrams")
	}
	if bigrams[0].FirstKey != 0x00 || bigrams[0].SecondKey != 0x01 || bigrams[0].Count != 2 {
		t.Fatalf("unexpected top bigram: %+v", bigrams[0])
	}
	if bigrams[0].Display != "A -> S" {
		t.Fatalf("unexpected display: %q", bigrams[0].Display)
	}
}

func TestCountFrequenciesTrigrams(t *testing.T) {
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makePress(200, 0x01),
		makePress(300, 0x02),
	))
	trigrams := tables.TopTrigrams(10)
	if len(trigrams) != 1 {
		t.Fatalf("expected 1 trigram, got %d", len(trigrams))
	}
	if trigrams[0].Keys != [3]uint32{0x00, 0x01, 0x02} {
		t.Fatalf("unexpected trigram keys: %v", trigrams[0].Keys)
	}
}

func TestNGramsNeverSpanSegments(t *testing.T) {
	// A >5000ms pause between S and D splits the stream; the S->D bigram
	// and any trigram through it must not exist.
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makePress(200, 0x01),
		makePress(9000, 0x02),
		makePress(9100, 0x03),
	))
	for _, bg := range tables.Bigrams {
		if bg.FirstKey == 0x01 && bg.SecondKey == 0x02 {
			t.Fatalf("bigram crossed a segment boundary: %+v", bg)
		}
	}
	if len(tables.Trigrams) != 0 {
		t.Fatalf("expected no trigrams across the boundary, got %+v", tables.Trigrams)
	}
	if len(tables.Bigrams) != 2 {
		t.Fatalf("expected 2 bigrams, got %d", len(tables.Bigrams))
	}
}

func TestFrequencyPercentages(t *testing.T) {
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makePress(200, 0x00),
		makePress(300, 0x01),
		makePress(400, 0x02),
	))
	top := tables.TopKeys(10)
	if diff := top[0].Percentage - 50.0; diff < -0.01 || diff > 0.01 {
		t.Fatalf("expected 50%%, got %.2f", top[0].Percentage)
	}
	if diff := top[1].Percentage - 25.0; diff < -0.01 || diff > 0.01 {
		t.Fatalf("expected 25%%, got %.2f", top[1].Percentage)
	}
}

func TestFrequencyTieBreakIsFirstSeen(t *testing.T) {
	// 0x01 and 0x02 both occur twice; 0x01 appears first and must rank first.
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x01),
		makePress(200, 0x02),
		makePress(300, 0x01),
		makePress(400, 0x02),
	))
	top := tables.TopKeys(10)
	if top[0].KeyCode != 0x01 || top[1].KeyCode != 0x02 {
		t.Fatalf("unexpected tie-break order: %+v", top)
	}
}

func TestTopKeysLimit(t *testing.T) {
	tables := CountFrequencies(segmentsOf(
		makePress(100, 0x00),
		makePress(200, 0x01),
		makePress(300, 0x02),
		makePress(400, 0x03),
		makePress(500, 0x04),
	))
	if top := tables.TopKeys(2); len(top) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(top))
	}
	if top := tables.TopKeys(50); len(top) != 5 {
		t.Fatalf("expected all 5 keys, got %d", len(top))
	}
}
