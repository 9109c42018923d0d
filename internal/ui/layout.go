package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which status badges are
	// shortened to one letter.
	LayoutCompactWidth = 80

	// LayoutNameWidth is the column reserved for field names.
	LayoutNameWidth = 20
)

// Activity pane limits.
const (
	// ActivityReadLimit is the number of log lines read per refresh.
	ActivityReadLimit = 200

	// ActivityLines is the number of entries shown in the pane.
	ActivityLines = 6
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
