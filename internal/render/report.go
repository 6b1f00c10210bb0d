package render

import (
	"fmt"
	"io"

	"github.com/ree-see/lurk/internal/analysis"
)

// RenderReport prints the full analysis block: totals, ranked frequency
// tables, inter-key timing, and hold durations. Detailed mode adds key
// codes, key-pair timings, and the active filter configuration.
func RenderReport(w io.Writer, report *analysis.Report, detailed bool) error {
	topN := report.Options.TopN

	if _, err := fmt.Fprintf(w, "=== Lurk Analysis ===\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total events:     %d\n", report.TotalEvents); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Typing segments:  %d (gaps > %dms filtered)\n",
		report.SegmentCount, report.Options.GapThresholdMs); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analyzed events:  %d\n", report.AnalyzedEvents); err != nil {
		return err
	}
	if err := renderDiagnostics(w, report.Diagnostics); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nTotal key presses: %d\n", report.Frequency.TotalPresses); err != nil {
		return err
	}

	if err := renderKeyTable(w, report, topN, detailed); err != nil {
		return err
	}
	if err := renderBigramTable(w, report, topN, detailed); err != nil {
		return err
	}
	if err := renderTrigramTable(w, report, topN, detailed); err != nil {
		return err
	}
	if err := renderInterKey(w, report); err != nil {
		return err
	}
	if detailed {
		if err := RenderHistogram(w, "--- Inter-Key Distribution ---", report.Timing.InterKeySamples, 0); err != nil {
			return err
		}
		if err := renderKeyPairs(w, report, topN); err != nil {
			return err
		}
	}
	if err := renderHolds(w, report, topN, detailed); err != nil {
		return err
	}
	if detailed {
		if err := renderFilterConfig(w, report); err != nil {
			return err
		}
	}
	return nil
}

func renderDiagnostics(w io.Writer, diag analysis.Diagnostics) error {
	if diag.MalformedEvents == 0 && diag.NonMonotonicEvents == 0 && diag.OrphanReleases == 0 && diag.AbandonedPresses == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Diagnostics:      %d malformed, %d out-of-order, %d orphan releases, %d abandoned presses\n",
		diag.MalformedEvents, diag.NonMonotonicEvents, diag.OrphanReleases, diag.AbandonedPresses)
	return err
}

func renderKeyTable(w io.Writer, report *analysis.Report, topN int, detailed bool) error {
	if _, err := fmt.Fprintf(w, "\n--- Top %d Keys ---\n", topN); err != nil {
		return err
	}
	top := report.Frequency.TopKeys(topN)
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	headers := []string{"#", "Key", "Count", "Share"}
	if detailed {
		headers = []string{"#", "Key", "Code", "Count", "Share"}
	}
	rows := make([][]string, 0, len(top))
	for i, key := range top {
		row := []string{
			fmt.Sprintf("%d.", i+1),
			key.KeyName,
			fmt.Sprintf("%d", key.Count),
			fmt.Sprintf("%.2f%%", key.Percentage),
		}
		if detailed {
			row = []string{
				fmt.Sprintf("%d.", i+1),
				key.KeyName,
				fmt.Sprintf("0x%02X", key.KeyCode),
				fmt.Sprintf("%d", key.Count),
				fmt.Sprintf("%.2f%%", key.Percentage),
			}
		}
		rows = append(rows, row)
	}
	rightAlign := map[int]bool{len(headers) - 2: true, len(headers) - 1: true}
	return writeLines(w, formatTable(headers, rows, rightAlign))
}

func renderBigramTable(w io.Writer, report *analysis.Report, topN int, detailed bool) error {
	if _, err := fmt.Fprintf(w, "\n--- Top %d Bigrams ---\n", topN); err != nil {
		return err
	}
	top := report.Frequency.TopBigrams(topN)
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	headers := []string{"#", "Bigram", "Count", "Share"}
	rows := make([][]string, 0, len(top))
	for i, bg := range top {
		display := bg.Display
		if detailed {
			display = fmt.Sprintf("%s (0x%02X->0x%02X)", bg.Display, bg.FirstKey, bg.SecondKey)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d.", i+1),
			display,
			fmt.Sprintf("%d", bg.Count),
			fmt.Sprintf("%.2f%%", bg.Percentage),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true}))
}

func renderTrigramTable(w io.Writer, report *analysis.Report, topN int, detailed bool) error {
	if _, err := fmt.Fprintf(w, "\n--- Top %d Trigrams ---\n", topN); err != nil {
		return err
	}
	top := report.Frequency.TopTrigrams(topN)
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	headers := []string{"#", "Trigram", "Count", "Share"}
	rows := make([][]string, 0, len(top))
	for i, tg := range top {
		display := tg.Display
		if detailed {
			display = fmt.Sprintf("%s (0x%02X->0x%02X->0x%02X)", tg.Display, tg.Keys[0], tg.Keys[1], tg.Keys[2])
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d.", i+1),
			display,
			fmt.Sprintf("%d", tg.Count),
			fmt.Sprintf("%.2f%%", tg.Percentage),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true}))
}

func renderInterKey(w io.Writer, report *analysis.Report) error {
	if _, err := fmt.Fprintf(w, "\n--- Inter-Key Timing ---\n"); err != nil {
		return err
	}
	summary := report.Timing.InterKey
	if summary == nil {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	lines := []string{
		fmt.Sprintf("Samples:    %d", summary.Count),
		fmt.Sprintf("Mean:       %.1fms", summary.MeanMs),
		fmt.Sprintf("Median:     %dms", summary.MedianMs),
		fmt.Sprintf("P90:        %dms", summary.P90Ms),
		fmt.Sprintf("P95:        %dms", summary.P95Ms),
		fmt.Sprintf("P99:        %dms", summary.P99Ms),
	}
	return writeLines(w, lines)
}

func renderKeyPairs(w io.Writer, report *analysis.Report, topN int) error {
	pairs := report.Timing.TopKeyPairs(topN)
	if len(pairs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n--- Top %d Key-Pair Timings ---\n", topN); err != nil {
		return err
	}
	for i, pair := range pairs {
		if _, err := fmt.Fprintf(w, "%2d. %-25s mean=%.1fms median=%dms p95=%dms (n=%d)\n",
			i+1, pair.Display, pair.MeanMs, pair.MedianMs, pair.P95Ms, pair.Count); err != nil {
			return err
		}
	}
	return nil
}

func renderHolds(w io.Writer, report *analysis.Report, topN int, detailed bool) error {
	if _, err := fmt.Fprintf(w, "\n--- Top %d Hold Durations ---\n", topN); err != nil {
		return err
	}
	holds := report.Timing.TopHolds(topN)
	if len(holds) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	for i, hold := range holds {
		if detailed {
			if _, err := fmt.Fprintf(w, "%2d. %-15s (0x%02X) mean=%.1fms median=%dms p95=%dms (n=%d)\n",
				i+1, hold.KeyName, hold.KeyCode, hold.Summary.MeanMs, hold.Summary.MedianMs, hold.Summary.P95Ms, hold.Summary.Count); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%2d. %-15s mean=%.1fms median=%dms p95=%dms (n=%d)\n",
			i+1, hold.KeyName, hold.Summary.MeanMs, hold.Summary.MedianMs, hold.Summary.P95Ms, hold.Summary.Count); err != nil {
			return err
		}
	}
	return nil
}

func renderFilterConfig(w io.Writer, report *analysis.Report) error {
	lines := []string{
		"",
		"--- Filter Config ---",
		fmt.Sprintf("Gap threshold:  %dms", report.Options.GapThresholdMs),
		fmt.Sprintf("Min hold:       %dms", report.Options.MinHoldMs),
		fmt.Sprintf("Max hold:       %dms", report.Options.MaxHoldMs),
	}
	if report.Options.MinSegmentEvents > 0 {
		lines = append(lines, fmt.Sprintf("Min segment:    %d events", report.Options.MinSegmentEvents))
	}
	return writeLines(w, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
