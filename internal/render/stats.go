package render

import (
	"fmt"
	"io"
	"time"

	"github.com/ree-see/lurk/internal/model"
	"github.com/ree-see/lurk/internal/store"
)

// QuickStats is the storage-level overview shown by the stats command.
type QuickStats struct {
	TotalEvents int64
	Presses     int64
	RangeStart  int64
	RangeEnd    int64
	HasRange    bool
	TopKeys     []store.KeyTotal
	TopApps     []store.AppTotal
}

// RenderQuickStats prints the database overview: totals, recorded range, and
// the most pressed keys and applications.
func RenderQuickStats(w io.Writer, stats QuickStats) error {
	if _, err := fmt.Fprintf(w, "=== Lurk Stats ===\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total events:  %d\n", stats.TotalEvents); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Key presses:   %d\n", stats.Presses); err != nil {
		return err
	}
	if stats.HasRange {
		start := time.UnixMilli(stats.RangeStart).Format("2006-01-02 15:04:05")
		end := time.UnixMilli(stats.RangeEnd).Format("2006-01-02 15:04:05")
		if _, err := fmt.Fprintf(w, "Recorded:      %s to %s\n", start, end); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "Recorded:      no events\n"); err != nil {
			return err
		}
	}

	if len(stats.TopKeys) > 0 {
		if _, err := fmt.Fprintf(w, "\n--- Top Keys ---\n"); err != nil {
			return err
		}
		rows := make([][]string, 0, len(stats.TopKeys))
		for i, kt := range stats.TopKeys {
			rows = append(rows, []string{
				fmt.Sprintf("%d.", i+1),
				model.KeyName(kt.KeyCode),
				fmt.Sprintf("%d", kt.Count),
			})
		}
		lines := formatTable([]string{"#", "Key", "Count"}, rows, map[int]bool{2: true})
		if err := writeLines(w, lines); err != nil {
			return err
		}
	}

	if len(stats.TopApps) > 0 {
		if _, err := fmt.Fprintf(w, "\n--- Top Applications ---\n"); err != nil {
			return err
		}
		rows := make([][]string, 0, len(stats.TopApps))
		for i, at := range stats.TopApps {
			rows = append(rows, []string{
				fmt.Sprintf("%d.", i+1),
				at.Application,
				fmt.Sprintf("%d", at.Count),
			})
		}
		lines := formatTable([]string{"#", "Application", "Count"}, rows, map[int]bool{2: true})
		if err := writeLines(w, lines); err != nil {
			return err
		}
	}
	return nil
}
