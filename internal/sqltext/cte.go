package sqltext

import (
	"regexp"
	"strings"
)

// withHeaderRe matches the `WITH` / `WITH RECURSIVE` keyword sequence
// that opens a statement's common-table-expression list.
var withHeaderRe = regexp.MustCompile(`(?i)^\s*WITH\s+(RECURSIVE\s+)?`)

// cteEntryHeaderRe matches one CTE's `name [(cols...)] AS (` opening,
// positioned at the very start of the text it's matched against.
var cteEntryHeaderRe = regexp.MustCompile(`(?is)^\s*([A-Za-z_]\w*)\s*(?:\(([^()]*)\))?\s*AS\s*\(`)

var dmlBodyRe = regexp.MustCompile(`(?is)^\s*(INSERT|UPDATE|DELETE)\b`)

// ExtractDMLCTEs rewrites a statement whose WITH clause defines one or
// more CTEs backed by an INSERT/UPDATE/DELETE ... RETURNING body — a
// form the TiDB grammar cannot parse as a CTE at all, since MySQL
// permits CTEs only over SELECT. Each such CTE is removed from the
// WITH list and its exposed columns (from the RETURNING item list)
// are returned in ctes, keyed by (lower-cased) CTE name, for the
// analyzer to register directly in its ambient CTE map. CTEs backed
// by an ordinary SELECT are left untouched for TiDB to parse normally.
//
// If every CTE in the clause turns out to be DML-backed, the WITH
// clause is removed entirely, leaving just the trailing statement.
func ExtractDMLCTEs(stmt string) (rewritten string, ctes map[string][]string) {
	ctes = make(map[string][]string)

	header := withHeaderRe.FindString(stmt)
	if header == "" {
		return stmt, ctes
	}
	rest := stmt[len(header):]

	// nl keeps only the line breaks of text that is dropped, so the
	// rewritten statement keeps its original line count.
	nl := func(s string) string { return strings.Repeat("\n", strings.Count(s, "\n")) }
	pad := ""

	var kept []string
	for {
		m := cteEntryHeaderRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		name := rest[m[2]:m[3]]
		bodyStart := m[1] // just after the opening '('
		bodyEnd, ok := matchingParen(rest, bodyStart-1)
		if !ok {
			break
		}
		body := rest[bodyStart:bodyEnd]
		entryText := rest[m[0] : bodyEnd+1]

		if dmlBodyRe.MatchString(body) {
			if _, items, ok := StripReturning(body); ok {
				ctes[strings.ToLower(name)] = ReturningItemNames(items)
			}
			pad += nl(entryText)
		} else {
			kept = append(kept, pad+entryText)
			pad = ""
		}

		after := rest[bodyEnd+1:]
		trimmed := strings.TrimLeft(after, " \t\r\n")
		pad += nl(after[:len(after)-len(trimmed)])
		if strings.HasPrefix(trimmed, ",") {
			rest = strings.TrimLeft(trimmed[1:], " \t\r\n")
			pad += nl(trimmed[1 : len(trimmed)-len(rest)])
			continue
		}
		rest = trimmed
		break
	}

	if len(ctes) == 0 {
		return stmt, ctes
	}
	if len(kept) == 0 {
		return nl(header) + pad + rest, ctes
	}
	return "WITH" + nl(header) + " " + strings.Join(kept, ", ") + " " + pad + rest, ctes
}

// matchingParen returns the byte index of the ')' matching the '(' at
// openIdx, accounting for nested parens and single-quoted strings.
func matchingParen(s string, openIdx int) (int, bool) {
	depth := 0
	inStr := false
	b := []byte(s)
	for i := openIdx; i < len(b); i++ {
		switch {
		case b[i] == '\'':
			inStr = !inStr
		case inStr:
			continue
		case b[i] == '(':
			depth++
		case b[i] == ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
