package normalize

import (
	"fmt"
	"strings"
	"unicode"
)

// PatternISO8601 selects ISO 8601 parsing instead of a fixed layout.
const PatternISO8601 = "iso8601"

// goLayoutMarkers identify a pattern that is already a Go reference layout.
var goLayoutMarkers = []string{"2006", "15:04", "Jan 2"}

// layoutWords are Go layout elements made of letters. Quoted text holding one
// of them, or a digit 0-7, cannot be expressed in a Go layout.
var layoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

// Layout converts a date pattern into a Go time layout. Patterns that
// already contain the Go reference date are returned unchanged. Otherwise
// the pattern is read as Java-style letters (yyyy-MM-dd HH:mm:ss), with
// text in single quotes taken literally. Quoted text that Go would read as
// a layout element, such as 'Mon' or '15', is rejected.
func Layout(pattern string) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", fmt.Errorf("empty date pattern")
	}

	for _, m := range goLayoutMarkers {
		if strings.Contains(pattern, m) {
			return pattern, nil
		}
	}

	var out strings.Builder

	runes := []rune(pattern)

	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}

			if end >= len(runes) {
				return "", fmt.Errorf("date pattern %q: unterminated quote", pattern)
			}

			literal := string(runes[i+1 : end])

			switch {
			case end == i+1:
				out.WriteRune('\'')
			case isLayoutText(literal):
				return "", fmt.Errorf("date pattern %q: quoted text %q reads as a Go layout element", pattern, literal)
			default:
				out.WriteString(literal)
			}

			i = end + 1

			continue
		}

		if !unicode.IsLetter(r) {
			if unicode.IsDigit(r) {
				return "", fmt.Errorf("date pattern %q: digits must be quoted", pattern)
			}

			out.WriteRune(r)
			i++

			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}

		token, err := layoutToken(r, n, out.String())
		if err != nil {
			return "", fmt.Errorf("date pattern %q: %w", pattern, err)
		}

		out.WriteString(token)
		i += n
	}

	return out.String(), nil
}

func isLayoutText(literal string) bool {
	if strings.ContainsAny(literal, "01234567") {
		return true
	}

	for _, w := range layoutWords {
		if strings.Contains(literal, w) {
			return true
		}
	}

	return false
}

func layoutToken(letter rune, n int, prefix string) (string, error) {
	switch letter {
	case 'y', 'u':
		if n == 2 {
			return "06", nil
		}

		return "2006", nil
	case 'M', 'L':
		switch n {
		case 1:
			return "1", nil
		case 2:
			return "01", nil
		case 3:
			return "Jan", nil
		default:
			return "January", nil
		}
	case 'd':
		if n == 1 {
			return "2", nil
		}

		return "02", nil
	case 'D':
		return "002", nil
	case 'H':
		return "15", nil
	case 'h':
		if n == 1 {
			return "3", nil
		}

		return "03", nil
	case 'm':
		if n == 1 {
			return "4", nil
		}

		return "04", nil
	case 's':
		if n == 1 {
			return "5", nil
		}

		return "05", nil
	case 'S':
		if !strings.HasSuffix(prefix, ".") && !strings.HasSuffix(prefix, ",") {
			return "", fmt.Errorf("fraction of second must follow '.' or ','")
		}

		return strings.Repeat("0", n), nil
	case 'a':
		return "PM", nil
	case 'E':
		if n >= 4 {
			return "Monday", nil
		}

		return "Mon", nil
	case 'z':
		return "MST", nil
	case 'Z':
		return "-0700", nil
	case 'X':
		switch n {
		case 1:
			return "Z07", nil
		case 2:
			return "Z0700", nil
		default:
			return "Z07:00", nil
		}
	case 'x':
		switch n {
		case 1:
			return "-07", nil
		case 2:
			return "-0700", nil
		default:
			return "-07:00", nil
		}
	default:
		return "", fmt.Errorf("unsupported pattern letter %q", letter)
	}
}
