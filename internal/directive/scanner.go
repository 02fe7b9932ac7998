// Package directive scans raw SQL text for `-- sqlsift:disable` comment
// directives and answers whether a given diagnostic code on a given
// line should be suppressed.
package directive

import "strings"

// InlineDirectives holds the parsed disable directives for one SQL
// text. A code set with all set for a line means "disable every rule
// on this line".
type InlineDirectives struct {
	// disabledLines maps a 1-indexed line number to the set of codes
	// disabled on it. A present key whose set has all set means "all
	// rules".
	disabledLines map[int]codeSet
}

// codeSet has all set for "disable all"; otherwise codes holds the
// disabled upper-cased codes. A plain map[string]bool could not tell
// "disable all" apart from an empty set, since Go's zero value for a
// map is nil, so the all flag keeps that state explicit.
type codeSet struct {
	all   bool
	codes map[string]bool
}

func allCodes() codeSet { return codeSet{all: true} }

func someCodes(codes map[string]bool) codeSet { return codeSet{codes: codes} }

// Parse scans sql line by line for inline disable directives.
//
// A directive on a line that also carries SQL (`SELECT x -- sqlsift:disable E0002`)
// suppresses on that same line. A directive on a standalone comment
// line accumulates and applies to the next non-empty, non-comment
// line — blank lines in between do not consume it.
func Parse(sql string) *InlineDirectives {
	d := &InlineDirectives{disabledLines: make(map[int]codeSet)}

	var pending *codeSet
	lineNum := 0
	for _, line := range splitLines(sql) {
		lineNum++
		trimmed := strings.TrimSpace(line)

		if codes, ok := parseDirectiveFromLine(line); ok {
			if strings.HasPrefix(trimmed, "--") {
				if pending == nil {
					merged := codes
					pending = &merged
				} else {
					mergeCodes(pending, codes)
				}
			} else {
				mergeIntoMap(d.disabledLines, lineNum, codes)
			}
		} else if pending != nil && trimmed != "" && !strings.HasPrefix(trimmed, "--") {
			mergeIntoMap(d.disabledLines, lineNum, *pending)
			pending = nil
		}
	}

	return d
}

// IsSuppressed reports whether a diagnostic with the given code on the
// given 1-indexed line should be suppressed. code is compared
// case-insensitively.
func (d *InlineDirectives) IsSuppressed(code string, line int) bool {
	set, ok := d.disabledLines[line]
	if !ok {
		return false
	}
	if set.all {
		return true
	}
	return set.codes[strings.ToUpper(code)]
}

// splitLines splits on "\n" the way Rust's str::lines does: a
// trailing "\r" on each line is trimmed, and a final trailing newline
// does not produce a spurious empty trailing line.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// parseDirectiveFromLine looks for `-- sqlsift:disable ...` in line,
// skipping over single-quoted string literals and double-quoted
// identifiers so that a `--` inside one is never mistaken for a
// comment start. The bool return is false when no directive is found.
func parseDirectiveFromLine(line string) (codeSet, bool) {
	start, ok := findLineComment(line)
	if !ok {
		return codeSet{}, false
	}
	comment := line[start+2:]

	trimmed := strings.TrimSpace(comment)
	rest, ok := strings.CutPrefix(trimmed, "sqlsift:disable")
	if !ok {
		return codeSet{}, false
	}

	if rest == "" {
		return allCodes(), true
	}

	r, _ := firstRune(rest)
	if !isSpace(r) {
		return codeSet{}, false
	}

	codes := make(map[string]bool)
	for _, part := range strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || r == ' ' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		codes[strings.ToUpper(part)] = true
	}

	if len(codes) == 0 {
		return allCodes(), true
	}
	return someCodes(codes), true
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// findLineComment returns the byte offset of the `--` that starts a
// line comment, skipping over single-quoted string literals (with
// '' escaping) and double-quoted identifiers.
func findLineComment(line string) (int, bool) {
	b := []byte(line)
	i := 0
	for i < len(b) {
		switch b[i] {
		case '\'':
			i++
			for i < len(b) {
				if b[i] == '\'' {
					i++
					if i < len(b) && b[i] == '\'' {
						i++
						continue
					}
					break
				}
				i++
			}
		case '"':
			i++
			for i < len(b) && b[i] != '"' {
				i++
			}
			if i < len(b) {
				i++
			}
		case '-':
			if i+1 < len(b) && b[i+1] == '-' {
				return i, true
			}
			i++
		default:
			i++
		}
	}
	return 0, false
}

func mergeIntoMap(m map[int]codeSet, line int, codes codeSet) {
	if existing, ok := m[line]; ok {
		mergeCodes(&existing, codes)
		m[line] = existing
		return
	}
	m[line] = codes
}

// mergeCodes merges new into existing in place. A "disable all" on
// either side wins.
func mergeCodes(existing *codeSet, newCodes codeSet) {
	if newCodes.all {
		*existing = allCodes()
		return
	}
	if existing.all {
		return
	}
	if existing.codes == nil {
		existing.codes = make(map[string]bool, len(newCodes.codes))
	}
	for c := range newCodes.codes {
		existing.codes[c] = true
	}
}
