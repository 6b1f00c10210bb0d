package analysis

import (
	"sort"

	"github.com/ree-see/lurk/internal/model"
)

// KeyPairTiming summarizes inter-key intervals for one ordered key pair.
type KeyPairTiming struct {
	FromKey   uint32
	ToKey     uint32
	Display   string
	Count     int
	MeanMs    float64
	MedianMs  int64
	P95Ms     int64
	SamplesMs []int64
}

// HoldTiming summarizes hold durations for one key.
type HoldTiming struct {
	KeyCode   uint32
	KeyName   string
	Summary   Summary
	SamplesMs []int64
}

// TimingTables holds the timing side of an analysis run.
type TimingTables struct {
	// InterKey is nil when no valid interval sample exists.
	InterKey         *Summary
	InterKeySamples  []int64
	KeyPairs         []KeyPairTiming
	Holds            []HoldTiming
	OrphanReleases   int
	AbandonedPresses int
}

// Key pairs need a few samples before a percentile summary says anything.
const minKeyPairSamples = 3

// AnalyzeTiming computes inter-key interval and hold-duration statistics
// over the given segments.
//
// Inter-key intervals are taken between consecutive press events within a
// segment, never across a boundary, and only when positive (a duplicate or
// reordered timestamp is not a typing-speed data point).
//
// Hold durations pair each release with the most recent unmatched press of
// the same key. A repeated press abandons the earlier one, which tolerates
// dropped release events from the capture layer; the press-to-release
// pairing itself may cross segment boundaries. Releases with no unmatched
// press and presses still open at stream end contribute no sample and are
// counted in the diagnostics.
func AnalyzeTiming(segments []Segment, opts model.AnalyzeOptions) TimingTables {
	tables := TimingTables{}

	pairSamples := map[[2]uint32][]int64{}
	pairOrder := map[[2]uint32]int{}
	for _, seg := range segments {
		var prev *model.KeyEvent
		for i := range seg.Events {
			ev := &seg.Events[i]
			if !ev.IsPress() {
				continue
			}
			if prev != nil {
				interval := ev.Timestamp - prev.Timestamp
				if interval > 0 {
					tables.InterKeySamples = append(tables.InterKeySamples, interval)
					pair := [2]uint32{prev.KeyCode, ev.KeyCode}
					if _, ok := pairSamples[pair]; !ok {
						pairOrder[pair] = len(pairOrder)
					}
					pairSamples[pair] = append(pairSamples[pair], interval)
				}
			}
			prev = ev
		}
	}

	if summary, ok := Summarize(tables.InterKeySamples); ok {
		tables.InterKey = &summary
	}
	tables.KeyPairs = rankKeyPairs(pairSamples, pairOrder)

	holds, orphans, abandoned := collectHolds(segments, opts)
	tables.Holds = holds
	tables.OrphanReleases = orphans
	tables.AbandonedPresses = abandoned
	return tables
}

// TopHolds returns the first n rows of the hold-duration table.
func (t TimingTables) TopHolds(n int) []HoldTiming {
	return t.Holds[:clampLen(n, len(t.Holds))]
}

// TopKeyPairs returns the first n rows of the key-pair timing table.
func (t TimingTables) TopKeyPairs(n int) []KeyPairTiming {
	return t.KeyPairs[:clampLen(n, len(t.KeyPairs))]
}

func rankKeyPairs(samples map[[2]uint32][]int64, order map[[2]uint32]int) []KeyPairTiming {
	out := make([]KeyPairTiming, 0, len(samples))
	for pair, intervals := range samples {
		if len(intervals) < minKeyPairSamples {
			continue
		}
		summary, ok := Summarize(intervals)
		if !ok {
			continue
		}
		out = append(out, KeyPairTiming{
			FromKey:   pair[0],
			ToKey:     pair[1],
			Display:   model.BigramDisplay(pair[0], pair[1]),
			Count:     summary.Count,
			MeanMs:    summary.MeanMs,
			MedianMs:  summary.MedianMs,
			P95Ms:     summary.P95Ms,
			SamplesMs: intervals,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		oi := order[[2]uint32{out[i].FromKey, out[i].ToKey}]
		oj := order[[2]uint32{out[j].FromKey, out[j].ToKey}]
		return oi < oj
	})
	return out
}

func collectHolds(segments []Segment, opts model.AnalyzeOptions) (holds []HoldTiming, orphans, abandoned int) {
	openPress := map[uint32]int64{}
	holdSamples := map[uint32][]int64{}
	holdOrder := map[uint32]int{}

	record := func(key uint32, duration int64) {
		if opts.MinHoldMs > 0 && duration < opts.MinHoldMs {
			return
		}
		if opts.MaxHoldMs > 0 && duration > opts.MaxHoldMs {
			return
		}
		if _, ok := holdSamples[key]; !ok {
			holdOrder[key] = len(holdOrder)
		}
		holdSamples[key] = append(holdSamples[key], duration)
	}

	for _, seg := range segments {
		for _, ev := range seg.Events {
			switch {
			case ev.IsPress():
				if _, open := openPress[ev.KeyCode]; open {
					abandoned++
				}
				openPress[ev.KeyCode] = ev.Timestamp
			case ev.IsRelease():
				pressTs, open := openPress[ev.KeyCode]
				if !open {
					orphans++
					continue
				}
				delete(openPress, ev.KeyCode)
				record(ev.KeyCode, ev.Timestamp-pressTs)
			}
		}
	}

	holds = make([]HoldTiming, 0, len(holdSamples))
	for key, samples := range holdSamples {
		summary, ok := Summarize(samples)
		if !ok {
			continue
		}
		holds = append(holds, HoldTiming{
			KeyCode:   key,
			KeyName:   model.KeyName(key),
			Summary:   summary,
			SamplesMs: samples,
		})
	}
	sort.Slice(holds, func(i, j int) bool {
		if holds[i].Summary.Count != holds[j].Summary.Count {
			return holds[i].Summary.Count > holds[j].Summary.Count
		}
		return holdOrder[holds[i].KeyCode] < holdOrder[holds[j].KeyCode]
	})
	return holds, orphans, abandoned
}
