// Package export reads and writes keystroke events as CSV and JSON.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ree-see/lurk/internal/model"
)

var csvHeader = []string{"timestamp", "key_code", "key_name", "event_type", "modifiers", "application"}

// WriteCSV exports events to a CSV file. The file is written to a temp
// sibling and renamed into place so a failed export never leaves a partial
// file behind.
func WriteCSV(path string, events []model.KeyEvent) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, ev := range events {
			record := []string{
				strconv.FormatInt(ev.Timestamp, 10),
				strconv.FormatUint(uint64(ev.KeyCode), 10),
				model.KeyName(ev.KeyCode),
				string(ev.Kind),
				joinModifiers(ev.Modifiers),
				ev.Application,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// JSONMetadata describes one JSON export.
type JSONMetadata struct {
	ExportDate  string     `json:"export_date"`
	TotalEvents int        `json:"total_events"`
	DateRange   *DateRange `json:"date_range"`
}

// DateRange is the span of exported event timestamps in milliseconds.
type DateRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type jsonEvent struct {
	Timestamp   int64            `json:"timestamp"`
	KeyCode     uint32           `json:"key_code"`
	KeyName     string           `json:"key_name"`
	EventType   string           `json:"event_type"`
	Modifiers   []model.Modifier `json:"modifiers"`
	Application string           `json:"application"`
}

type jsonExport struct {
	Metadata JSONMetadata `json:"metadata"`
	Events   []jsonEvent  `json:"events"`
}

// WriteJSON exports events plus a metadata envelope to a JSON file.
// dateRange may be nil when the store is empty.
func WriteJSON(path string, events []model.KeyEvent, dateRange *DateRange) error {
	doc := jsonExport{
		Metadata: JSONMetadata{
			ExportDate:  time.Now().UTC().Format(time.RFC3339),
			TotalEvents: len(events),
			DateRange:   dateRange,
		},
		Events: make([]jsonEvent, 0, len(events)),
	}
	for _, ev := range events {
		doc.Events = append(doc.Events, jsonEvent{
			Timestamp:   ev.Timestamp,
			KeyCode:     ev.KeyCode,
			KeyName:     model.KeyName(ev.KeyCode),
			EventType:   string(ev.Kind),
			Modifiers:   ev.Modifiers,
			Application: ev.Application,
		})
	}
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}

// ReadCSV loads events from a CSV file in export format. The key_name column
// is derived data and ignored on the way back in.
func ReadCSV(path string) ([]model.KeyEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close on a read-only file.
			_ = cerr
		}
	}()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if header[0] != csvHeader[0] || header[3] != csvHeader[3] {
		return nil, fmt.Errorf("unrecognized header in %s", path)
	}

	var events []model.KeyEvent
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		ev, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRecord(record []string) (model.KeyEvent, error) {
	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return model.KeyEvent{}, fmt.Errorf("bad timestamp %q: %w", record[0], err)
	}
	code, err := strconv.ParseUint(record[1], 10, 32)
	if err != nil {
		return model.KeyEvent{}, fmt.Errorf("bad key code %q: %w", record[1], err)
	}
	kind := model.EventKind(record[3])
	if kind != model.KindPress && kind != model.KindRelease {
		return model.KeyEvent{}, fmt.Errorf("bad event type %q", record[3])
	}
	return model.KeyEvent{
		Timestamp:   ts,
		KeyCode:     uint32(code),
		Kind:        kind,
		Modifiers:   splitModifiers(record[4]),
		Application: record[5],
	}, nil
}

func joinModifiers(mods []model.Modifier) string {
	if len(mods) == 0 {
		return ""
	}
	parts := make([]string, 0, len(mods))
	for _, m := range mods {
		parts = append(parts, string(m))
	}
	return strings.Join(parts, ";")
}

func splitModifiers(s string) []model.Modifier {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	mods := make([]model.Modifier, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		mods = append(mods, model.Modifier(p))
	}
	if len(mods) == 0 {
		return nil
	}
	return mods
}

func writeAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "lurk-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
