package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// CollapseSpace trims a string and folds any run of whitespace
// (including newlines from nested markup) into a single space.
func CollapseSpace(s string) string {
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// FirstLine returns the first non-empty line of a fragment's text.
// Catalog table cells render the display value on the first line and
// tack hidden bookkeeping nodes below it.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(line, " \t")
		if line != "" {
			return line
		}
	}
	return ""
}

// LastLine returns the last non-empty line of a fragment's text.
// The catalog's labeled divs put the label on the first line and the
// value on the last.
func LastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.Trim(lines[i], " \t")
		if line != "" {
			return line
		}
	}
	return ""
}

// JoinLines trims every line of a fragment and joins the non-empty
// ones with single spaces. Whitespace inside a line is preserved.
func JoinLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(line, " \t")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

// SplitItems splits the text of a nested-div list into its items,
// preserving source order. The leading label line (ending in ':'),
// empty lines and stray comma rows are dropped. Duplicates are kept
// verbatim.
func SplitItems(s string) []string {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(line, " \t")
		if line == "" || line == "," || strings.HasSuffix(line, ":") {
			continue
		}
		items = append(items, line)
	}
	return items
}

// KBFromTitle extracts the knowledge-base number from an update title
// such as "Security Update for Windows XP (KB958644)". The second
// return is false when the title carries no KB marker.
func KBFromTitle(title string) (string, bool) {
	idx := strings.LastIndex(title, "(KB")
	if idx < 0 {
		return "", false
	}
	rest := title[idx+1:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// ParseSize converts a catalog size string such as "168.7 MB" into a
// byte count. The arithmetic stays integral so the displayed precision
// is preserved exactly. The second return is false when the string is
// not a recognizable size.
func ParseSize(s string) (int64, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0, false
	}

	var mult int64
	switch strings.ToUpper(fields[1]) {
	case "KB":
		mult = 1 << 10
	case "MB":
		mult = 1 << 20
	case "GB":
		mult = 1 << 30
	default:
		return 0, false
	}

	digits := fields[0]
	scale := int64(1)
	if dot := strings.IndexByte(digits, '.'); dot >= 0 {
		for i := 0; i < len(digits)-dot-1; i++ {
			scale *= 10
		}
		digits = digits[:dot] + digits[dot+1:]
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return value * mult / scale, true
}
