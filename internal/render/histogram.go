package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	histogramBuckets    = 8
	minBarWidth         = 10
	terminalWidthBackup = 80
)

// RenderHistogram prints a bucketed bar chart of millisecond samples. A width
// of zero sizes the bars to the terminal.
func RenderHistogram(w io.Writer, title string, samples []int64, width int) error {
	if len(samples) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}

	minVal, maxVal := samples[0], samples[0]
	for _, s := range samples {
		if s < minVal {
			minVal = s
		}
		if s > maxVal {
			maxVal = s
		}
	}

	buckets := histogramBuckets
	span := maxVal - minVal + 1
	if span < int64(buckets) {
		buckets = int(span)
	}
	bucketSize := span / int64(buckets)
	if span%int64(buckets) != 0 {
		bucketSize++
	}

	counts := make([]int, buckets)
	for _, s := range samples {
		idx := int((s - minVal) / bucketSize)
		if idx >= buckets {
			idx = buckets - 1
		}
		counts[idx]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	labelWidth := len(fmt.Sprintf("%d-%dms", maxVal, maxVal))
	barWidth := width - labelWidth - 10
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	for i, count := range counts {
		lo := minVal + int64(i)*bucketSize
		hi := lo + bucketSize - 1
		label := fmt.Sprintf("%d-%dms", lo, hi)
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("█", count*barWidth/maxCount)
		}
		if count > 0 && bar == "" {
			bar = "▏"
		}
		if _, err := fmt.Fprintf(w, "%*s %s %d\n", labelWidth, label, bar, count); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
