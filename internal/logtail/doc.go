// Package logtail reads and parses quill's own log file.
//
// # Overview
//
// The activity pane in the TUI shows the most recent commits, rejections and
// state transitions. quill writes those through log/slog to a file, and this
// package reads that file back without loading all of it into memory.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// A non-positive maxLines returns the whole file. A missing file yields
// nil, nil; other I/O errors are returned wrapped.
//
// # Parsing
//
// ParseLine understands both slog handler formats:
//
//	time=2025-10-08T21:01:05Z level=INFO msg="commit applied" field=email
//	{"time":"2025-10-08T21:01:05Z","level":"INFO","msg":"commit applied","field":"email"}
//
// The time, level and msg keys fill the Entry fields; everything else lands
// in Attrs in file order (JSON attrs are sorted by key). Lines that match
// neither format are returned with the trimmed text as Message, so nothing
// written to the file is ever dropped from view.
package logtail
