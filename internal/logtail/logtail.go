package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr is a single key/value pair from a log record.
type Attr struct {
	Key   string
	Value string
}

// Entry is one parsed log record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Attr returns the value of the named attribute, or "".
func (e Entry) Attr(key string) string {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// ParseLine parses a record written by slog's text or JSON handler. Lines
// that match neither format come back with only Raw and Message set.
func ParseLine(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Entry{Raw: line}
	}
	if strings.HasPrefix(trimmed, "{") {
		if entry, ok := parseJSON(trimmed); ok {
			entry.Raw = line
			return entry
		}
	}
	pairs, ok := splitPairs(trimmed)
	if !ok {
		return Entry{Raw: line, Message: trimmed}
	}
	entry := Entry{Raw: line}
	for _, p := range pairs {
		entry.assign(p.Key, p.Value)
	}
	return entry
}

// ParseLines parses every line, skipping blanks.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, ParseLine(line))
	}
	return entries
}

func (e *Entry) assign(key, value string) {
	switch key {
	case "time":
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			e.Time = t
		}
	case "level":
		e.Level = strings.ToUpper(value)
	case "msg":
		e.Message = value
	default:
		e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	}
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entry Entry
	for _, k := range keys {
		var value string
		switch v := raw[k].(type) {
		case string:
			value = v
		case nil:
			value = ""
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				continue
			}
			value = string(encoded)
		}
		entry.assign(k, value)
	}
	return entry, true
}

// splitPairs tokenizes key=value pairs as produced by slog.TextHandler.
func splitPairs(line string) ([]Attr, bool) {
	var pairs []Attr
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq <= 0 {
			return nil, false
		}
		key := line[i : i+eq]
		if strings.ContainsAny(key, " \"") {
			return nil, false
		}
		i += eq + 1

		var value string
		if i < len(line) && line[i] == '"' {
			end := i + 1
			for end < len(line) {
				if line[end] == '\\' {
					end += 2
					continue
				}
				if line[end] == '"' {
					break
				}
				end++
			}
			if end >= len(line) {
				return nil, false
			}
			unquoted, err := strconv.Unquote(line[i : end+1])
			if err != nil {
				return nil, false
			}
			value = unquoted
			i = end + 1
		} else {
			end := strings.IndexByte(line[i:], ' ')
			if end < 0 {
				end = len(line) - i
			}
			value = line[i : i+end]
			i += end
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
	}
	return pairs, len(pairs) > 0
}

