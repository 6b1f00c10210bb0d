package analysis

import (
	"sort"

	"github.com/ree-see/lurk/internal/model"
)

// KeyCount is one row of the unigram frequency table.
type KeyCount struct {
	KeyCode    uint32
	KeyName    string
	Count      int
	Percentage float64
}

// BigramCount is one row of the bigram frequency table.
type BigramCount struct {
	FirstKey   uint32
	SecondKey  uint32
	Display    string
	Count      int
	Percentage float64
}

// TrigramCount is one row of the trigram frequency table.
type TrigramCount struct {
	Keys       [3]uint32
	Display    string
	Count      int
	Percentage float64
}

// FrequencyTables holds the full ranked frequency tables over press events.
type FrequencyTables struct {
	TotalPresses int
	Keys         []KeyCount
	Bigrams      []BigramCount
	Trigrams     []TrigramCount
}

type gramEntry struct {
	count     int
	firstSeen int
}

// CountFrequencies counts unigrams, bigrams, and trigrams over the press
// events of each segment. N-grams never span a segment boundary, which keeps
// idle pauses out of the transition tables. Rows are ranked by count
// descending; ties break by first appearance so output is deterministic.
func CountFrequencies(segments []Segment) FrequencyTables {
	keyCounts := map[uint32]*gramEntry{}
	bigramCounts := map[[2]uint32]*gramEntry{}
	trigramCounts := map[[3]uint32]*gramEntry{}
	totalPresses := 0
	seen := 0

	for _, seg := range segments {
		presses := pressKeys(seg)
		totalPresses += len(presses)
		for i, key := range presses {
			bump(keyCounts, key, &seen)
			if i+1 < len(presses) {
				bump(bigramCounts, [2]uint32{key, presses[i+1]}, &seen)
			}
			if i+2 < len(presses) {
				bump(trigramCounts, [3]uint32{key, presses[i+1], presses[i+2]}, &seen)
			}
		}
	}

	return FrequencyTables{
		TotalPresses: totalPresses,
		Keys:         rankKeys(keyCounts, totalPresses),
		Bigrams:      rankBigrams(bigramCounts),
		Trigrams:     rankTrigrams(trigramCounts),
	}
}

// TopKeys returns the first n rows of the unigram table.
func (f FrequencyTables) TopKeys(n int) []KeyCount {
	return f.Keys[:clampLen(n, len(f.Keys))]
}

// TopBigrams returns the first n rows of the bigram table.
func (f FrequencyTables) TopBigrams(n int) []BigramCount {
	return f.Bigrams[:clampLen(n, len(f.Bigrams))]
}

// TopTrigrams returns the first n rows of the trigram table.
func (f FrequencyTables) TopTrigrams(n int) []TrigramCount {
	return f.Trigrams[:clampLen(n, len(f.Trigrams))]
}

func clampLen(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}

func pressKeys(seg Segment) []uint32 {
	keys := make([]uint32, 0, len(seg.Events))
	for _, ev := range seg.Events {
		if ev.IsPress() {
			keys = append(keys, ev.KeyCode)
		}
	}
	return keys
}

func bump[K comparable](counts map[K]*gramEntry, key K, seen *int) {
	if entry, ok := counts[key]; ok {
		entry.count++
		return
	}
	counts[key] = &gramEntry{count: 1, firstSeen: *seen}
	*seen++
}

// Ranking is a full sort by (count desc, first-seen asc), not an approximate
// top-K: report tables are small and the tie-break keeps output reproducible.

func rankKeys(counts map[uint32]*gramEntry, total int) []KeyCount {
	type ranked struct {
		key   uint32
		entry *gramEntry
	}
	items := make([]ranked, 0, len(counts))
	for key, entry := range counts {
		items = append(items, ranked{key, entry})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].entry.count != items[j].entry.count {
			return items[i].entry.count > items[j].entry.count
		}
		return items[i].entry.firstSeen < items[j].entry.firstSeen
	})

	out := make([]KeyCount, 0, len(items))
	for _, item := range items {
		out = append(out, KeyCount{
			KeyCode:    item.key,
			KeyName:    model.KeyName(item.key),
			Count:      item.entry.count,
			Percentage: percentage(item.entry.count, total),
		})
	}
	return out
}

func rankBigrams(counts map[[2]uint32]*gramEntry) []BigramCount {
	type ranked struct {
		keys  [2]uint32
		entry *gramEntry
	}
	items := make([]ranked, 0, len(counts))
	total := 0
	for keys, entry := range counts {
		items = append(items, ranked{keys, entry})
		total += entry.count
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].entry.count != items[j].entry.count {
			return items[i].entry.count > items[j].entry.count
		}
		return items[i].entry.firstSeen < items[j].entry.firstSeen
	})

	out := make([]BigramCount, 0, len(items))
	for _, item := range items {
		out = append(out, BigramCount{
			FirstKey:   item.keys[0],
			SecondKey:  item.keys[1],
			Display:    model.BigramDisplay(item.keys[0], item.keys[1]),
			Count:      item.entry.count,
			Percentage: percentage(item.entry.count, total),
		})
	}
	return out
}

func rankTrigrams(counts map[[3]uint32]*gramEntry) []TrigramCount {
	type ranked struct {
		keys  [3]uint32
		entry *gramEntry
	}
	items := make([]ranked, 0, len(counts))
	total := 0
	for keys, entry := range counts {
		items = append(items, ranked{keys, entry})
		total += entry.count
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].entry.count != items[j].entry.count {
			return items[i].entry.count > items[j].entry.count
		}
		return items[i].entry.firstSeen < items[j].entry.firstSeen
	})

	out := make([]TrigramCount, 0, len(items))
	for _, item := range items {
		out = append(out, TrigramCount{
			Keys:       item.keys,
			Display:    model.TrigramDisplay(item.keys[0], item.keys[1], item.keys[2]),
			Count:      item.entry.count,
			Percentage: percentage(item.entry.count, total),
		})
	}
	return out
}

func percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100.0
}
