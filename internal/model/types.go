// Package model defines shared data structures.
package model

// EventKind distinguishes key presses from releases.
type EventKind string

// Recognized event kinds. Any other value is treated as malformed input.
const (
	KindPress   EventKind = "press"
	KindRelease EventKind = "release"
)

// Modifier is a modifier key held during an event.
type Modifier string

// Recognized modifiers.
const (
	ModShift    Modifier = "shift"
	ModControl  Modifier = "control"
	ModAlt      Modifier = "alt"
	ModCommand  Modifier = "command"
	ModCapsLock Modifier = "capslock"
	ModFunction Modifier = "function"
)

// KeyEvent is one captured keystroke event. Timestamps are milliseconds
// since the Unix epoch; ordering ties are broken by original log order.
type KeyEvent struct {
	Timestamp   int64
	KeyCode     uint32
	Kind        EventKind
	Modifiers   []Modifier
	Application string
}

// IsPress reports whether the event is a key press.
func (e KeyEvent) IsPress() bool {
	return e.Kind == KindPress
}

// IsRelease reports whether the event is a key release.
func (e KeyEvent) IsRelease() bool {
	return e.Kind == KindRelease
}

// AnalyzeOptions configures one analysis run.
type AnalyzeOptions struct {
	GapThresholdMs   int64
	TopN             int
	MinSegmentEvents int
	MinHoldMs        int64
	MaxHoldMs        int64
}

// Analysis defaults. Hold bounds of zero disable the respective check.
const (
	DefaultGapThresholdMs = 5000
	DefaultTopN           = 10
	DefaultMinHoldMs      = 10
	DefaultMaxHoldMs      = 2000
)

// DefaultAnalyzeOptions returns the default analysis configuration.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		GapThresholdMs: DefaultGapThresholdMs,
		TopN:           DefaultTopN,
		MinHoldMs:      DefaultMinHoldMs,
		MaxHoldMs:      DefaultMaxHoldMs,
	}
}
