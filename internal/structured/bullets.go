// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structured

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// bulletMarkers are accepted list markers besides numbered ones.
var bulletMarkers = []string{"-", "*", "•", "–", "—"}

// emptyItems are list entries that mean "nothing to report".
var emptyItems = map[string]bool{
	"none":           true,
	"n/a":            true,
	"not applicable": true,
}

// ExtractBulletList returns the items of every bulleted (-, *, •, dashes)
// or numbered (1. or 1)) line in raw, in order. Markers are stripped and
// items trimmed; empty items and "none", "n/a", "not applicable" are
// dropped. Lines without a marker are ignored. The result is never nil.
func ExtractBulletList(raw string) []string {
	items := []string{}
	for _, line := range strings.Split(raw, "\n") {
		item, ok := listItem(strings.TrimSpace(line))
		if !ok || item == "" {
			continue
		}
		if emptyItems[strings.ToLower(strings.TrimRight(item, "."))] {
			continue
		}
		items = append(items, item)
	}
	return items
}

// listItem strips a list marker from line. It reports false when line is
// not a list entry.
func listItem(line string) (string, bool) {
	for _, m := range bulletMarkers {
		rest, ok := strings.CutPrefix(line, m)
		if !ok {
			continue
		}
		// "*" needs a space so emphasis like **bold** is not an item.
		if startsWithSpace(rest) || (m != "*" && startsWithLetter(rest)) {
			return strings.TrimSpace(rest), true
		}
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || (line[i] != '.' && line[i] != ')') {
		return "", false
	}
	rest := line[i+1:]
	if !startsWithSpace(rest) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsSpace(r)
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}
