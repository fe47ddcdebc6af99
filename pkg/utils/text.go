package utils

import (
	"errors"
	"strconv"
	"strings"
)

// ParseLeadingInt reads the integer at the start of input, ignoring
// leading whitespace and anything after the digits ("12abc" is 12).
// Values past the int64 range clamp to its bounds and still count as numbers.
func ParseLeadingInt(input string) (int64, bool) {
	s := strings.TrimSpace(input)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// SplitCommand separates the command word from its arguments.
func SplitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
