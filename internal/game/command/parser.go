package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and the text after it.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// RawArgs is the text after the command, trimmed but otherwise untouched
	// so entry labels keep their inner spacing and case.
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Precondition: line should be trimmed of leading/trailing whitespace.
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	// Split at first space for the command word
	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	return ParseResult{
		Command: strings.ToLower(line[:spaceIdx]),
		RawArgs: strings.TrimSpace(line[spaceIdx+1:]),
	}
}

// ErrBadIndex is returned when an entry number does not parse.
var ErrBadIndex = errors.New("entry number must be a whole number")

// ParseIndex converts a one-based entry number as typed by the user into a
// zero-based index.
//
// Postcondition: Returns ErrBadIndex for non-numeric input. Range is checked
// by the entry store.
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadIndex, s)
	}
	return n - 1, nil
}

// SplitFirst splits raw into its first word and the remaining text.
func SplitFirst(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	i := strings.IndexAny(raw, " \t")
	if i < 0 {
		return raw, ""
	}
	return raw[:i], strings.TrimSpace(raw[i+1:])
}
