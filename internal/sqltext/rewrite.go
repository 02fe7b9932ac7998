package sqltext

import (
	"regexp"
	"strconv"
	"strings"
)

// EnumDef is the parsed shape of a `CREATE TYPE name AS ENUM (...)`
// statement, recognized directly from text because the TiDB grammar
// has no notion of a standalone enum type.
type EnumDef struct {
	Name   string
	Labels []string
}

var enumRe = regexp.MustCompile(`(?is)^\s*CREATE\s+TYPE\s+([A-Za-z_][\w."]*)\s+AS\s+ENUM\s*\(\s*(.*?)\s*\)\s*;?\s*$`)

// MatchEnum recognizes a CREATE TYPE ... AS ENUM statement and returns
// its parsed definition. ok is false for any other statement shape,
// in which case the statement should be handed to the normal
// TiDB-parser path instead.
func MatchEnum(stmt string) (EnumDef, bool) {
	m := enumRe.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return EnumDef{}, false
	}
	name := unquoteIdent(m[1])
	labels := splitEnumLabels(m[2])
	return EnumDef{Name: name, Labels: labels}, true
}

func splitEnumLabels(body string) []string {
	var labels []string
	var cur strings.Builder
	inStr := false
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' && !inStr:
			inStr = true
		case r == '\'' && inStr:
			if i+1 < len(runes) && runes[i+1] == '\'' {
				cur.WriteRune('\'')
				i++
				continue
			}
			inStr = false
		case r == ',' && !inStr:
			labels = append(labels, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if strings.TrimSpace(cur.String()) != "" || len(labels) > 0 {
		labels = append(labels, cur.String())
	}
	for i, l := range labels {
		labels[i] = strings.TrimSpace(l)
	}
	return labels
}

func unquoteIdent(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	if idx := strings.LastIndexByte(s, '.'); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}

var materializedViewRe = regexp.MustCompile(`(?i)\bCREATE\s+MATERIALIZED\s+VIEW\b`)

// RewriteMaterializedView strips the MATERIALIZED keyword so the
// TiDB parser sees an ordinary CREATE VIEW, returning the rewritten
// text and whether a rewrite occurred. The keyword is removed together
// with the whitespace before it, so offsets after it shift; callers
// that need exact column offsets should operate on the original text
// instead — only the catalog builder, which only needs the view's
// name and body, consumes the rewritten text.
func RewriteMaterializedView(stmt string) (string, bool) {
	if !materializedViewRe.MatchString(stmt) {
		return stmt, false
	}
	rewritten := materializedViewRe.ReplaceAllStringFunc(stmt, func(m string) string {
		return regexp.MustCompile(`(?i)\s+MATERIALIZED`).ReplaceAllString(m, "")
	})
	return rewritten, true
}

// unnestWithOrdinalityRe recognizes `UNNEST(...) WITH ORDINALITY AS
// alias(cols...)` so the resolver can build an UnnestBinding even
// though the TiDB grammar has no WITH ORDINALITY clause. Rewriting
// replaces the whole clause with the bare `alias`, which the parser
// accepts as a table reference; the analyzer is handed the match
// data separately so it
// can still build the binding with the correct exposed columns. The
// column list is optional: `AS alias` alone (no column list) binds
// nothing, and a bare `SELECT *` against it stays empty rather than
// erroring.
var unnestWithOrdinalityRe = regexp.MustCompile(`(?is)UNNEST\s*\(([^()]*)\)\s*WITH\s+ORDINALITY\s+AS\s+([A-Za-z_]\w*)(?:\s*\(([^()]*)\))?`)

// UnnestMatch describes one UNNEST(...) WITH ORDINALITY AS alias(cols)
// occurrence found in a statement's FROM clause.
type UnnestMatch struct {
	Alias   string
	Columns []string
	// Start/End are the byte offsets of the whole matched clause in
	// the statement text that was searched.
	Start, End int
}

// FindUnnestWithOrdinality returns every WITH ORDINALITY occurrence in
// stmt along with the text that would result from replacing each one
// with a bare `alias` table reference — a form the TiDB grammar
// parses as an ordinary table source, letting the rest of the FROM
// clause (joins, conditions) parse normally. The analyzer substitutes
// its own UnnestBinding for that alias rather than resolving it
// against the catalog.
func FindUnnestWithOrdinality(stmt string) (rewritten string, matches []UnnestMatch) {
	idxs := unnestWithOrdinalityRe.FindAllStringSubmatchIndex(stmt, -1)
	if idxs == nil {
		return stmt, nil
	}

	var b strings.Builder
	last := 0
	for _, idx := range idxs {
		start, end := idx[0], idx[1]
		alias := stmt[idx[4]:idx[5]]
		var cols []string
		if idx[6] >= 0 && idx[7] >= 0 {
			cols = splitIdentList(stmt[idx[6]:idx[7]])
		}

		b.WriteString(stmt[last:start])
		b.WriteString(alias)
		b.WriteString(strings.Repeat("\n", strings.Count(stmt[start:end], "\n")))
		last = end

		matches = append(matches, UnnestMatch{Alias: alias, Columns: cols, Start: start, End: end})
	}
	b.WriteString(stmt[last:])
	return b.String(), matches
}

func splitIdentList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, unquoteIdent(p))
		}
	}
	return out
}

// derivedAliasColsRe recognizes a derived table's explicit column
// rename list, `) AS alias(cols...)` — PostgreSQL/SQLite syntax the
// MySQL-flavored TiDB grammar has no equivalent for (MySQL derived
// tables take a bare alias only).
var derivedAliasColsRe = regexp.MustCompile(`(?is)\)\s*AS\s+([A-Za-z_]\w*)\s*\(\s*([A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*)\s*\)`)

// FindDerivedTableAliasColumns strips every `(cols...)` column rename
// list following a derived table's `AS alias`, leaving a bare alias
// TiDB can parse, and returns each alias's explicit column list so
// the analyzer can apply it positionally to the subquery's projection
// and flag an arity mismatch (§4.3 derived-table resolution).
func FindDerivedTableAliasColumns(stmt string) (rewritten string, aliasCols map[string][]string) {
	aliasCols = make(map[string][]string)
	matches := derivedAliasColsRe.FindAllStringSubmatchIndex(stmt, -1)
	if matches == nil {
		return stmt, aliasCols
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		alias := stmt[m[2]:m[3]]
		cols := splitIdentList(stmt[m[4]:m[5]])
		aliasCols[strings.ToLower(alias)] = cols

		b.WriteString(stmt[last:m[0]])
		b.WriteString(")")
		b.WriteString(" AS ")
		b.WriteString(alias)
		b.WriteString(strings.Repeat("\n", strings.Count(stmt[m[0]:m[1]], "\n")))
		last = m[1]
	}
	b.WriteString(stmt[last:])
	return b.String(), aliasCols
}

// identityRe recognizes the PostgreSQL `GENERATED { ALWAYS | BY
// DEFAULT } AS IDENTITY` column clause, which the MySQL-flavored TiDB
// grammar has no notion of. This is a fifth bridged form beyond the
// four named in the system overview, added because the column model
// (§3) requires distinguishing ALWAYS from BY DEFAULT identity.
var identityRe = regexp.MustCompile(`(?i)\bGENERATED\s+(ALWAYS|BY\s+DEFAULT)\s+AS\s+IDENTITY\b(\s*\([^()]*\))?`)

// columnDefNameRe captures the leading identifier of a column
// definition (its column name, optionally double-quoted), used to
// attribute an identity clause to its column.
var columnDefNameRe = regexp.MustCompile(`^\s*"?([A-Za-z_]\w*)`)

// IdentityKind mirrors catalog.Identity without importing it, keeping
// sqltext free of a dependency on the catalog package.
type IdentityKind int

const (
	IdentityNone IdentityKind = iota
	IdentityAlways
	IdentityByDefault
)

// RewriteIdentityColumns strips GENERATED ... AS IDENTITY clauses
// (replacing them with blanks of equal length so column offsets
// don't shift) and returns which column each clause belonged to, so
// the catalog builder can mark that column's Identity kind directly
// since the stripped statement no longer carries the information.
func RewriteIdentityColumns(stmt string) (rewritten string, idents map[string]IdentityKind) {
	idents = make(map[string]IdentityKind)
	matches := identityRe.FindAllStringSubmatchIndex(stmt, -1)
	if matches == nil {
		return stmt, idents
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		kindText := strings.ToUpper(stmt[m[2]:m[3]])
		kind := IdentityByDefault
		if strings.HasPrefix(kindText, "ALWAYS") {
			kind = IdentityAlways
		}
		// The column definition starts after the nearest '(' or ','
		// before the clause that is not inside the column's own type
		// parameters, e.g. NUMERIC(10, 2).
		prefix, cut, depth := stmt[:start], 0, 0
		for i := len(prefix) - 1; i >= 0 && cut == 0; i-- {
			switch {
			case prefix[i] == ')':
				depth++
			case prefix[i] == '(' && depth > 0:
				depth--
			case (prefix[i] == '(' || prefix[i] == ',') && depth == 0:
				cut = i + 1
			}
		}
		if m := columnDefNameRe.FindStringSubmatch(prefix[cut:]); m != nil {
			idents[strings.ToLower(m[1])] = kind
		}
		b.WriteString(stmt[last:start])
		b.WriteString(strings.Repeat(" ", end-start))
		last = end
	}
	b.WriteString(stmt[last:])
	return b.String(), idents
}

// returningRe finds `RETURNING <items>` at the end of an INSERT,
// UPDATE or DELETE statement — standard PostgreSQL syntax the TiDB
// grammar doesn't recognize.
var returningRe = regexp.MustCompile(`(?is)\bRETURNING\s+(.+?)\s*;?\s*$`)

// StripReturning removes a trailing RETURNING clause so the statement
// parses as plain DML, returning the clause's raw item list text
// (e.g. "id, name") so the caller can compute the exported column set
// for a CTE whose body is this statement.
func StripReturning(stmt string) (rewritten string, items string, ok bool) {
	m := returningRe.FindStringSubmatchIndex(stmt)
	if m == nil {
		return stmt, "", false
	}
	items = stmt[m[2]:m[3]]
	rewritten = stmt[:m[0]] + strings.Repeat(" ", len(stmt[m[0]:m[1]]))
	return rewritten, items, true
}

// ReturningItemNames parses a RETURNING item list into its exposed
// column names, following the same alias/identifier/anonymous rule as
// view-body column inference (§4.2): `AS alias` wins, otherwise the
// final identifier segment of a bare column reference, otherwise a
// positional synthetic name.
func ReturningItemNames(items string) []string {
	parts := splitTopLevel(items, ',')
	names := make([]string, 0, len(parts))
	for i, p := range parts {
		names = append(names, inferProjectionName(p, i))
	}
	return names
}

func inferProjectionName(expr string, position int) string {
	expr = strings.TrimSpace(expr)
	if idx := findKeyword(expr, "AS"); idx >= 0 {
		return unquoteIdent(strings.TrimSpace(expr[idx+2:]))
	}
	if fields := strings.Fields(expr); len(fields) >= 2 {
		return unquoteIdent(fields[len(fields)-1])
	}
	if isBareIdentPath(expr) {
		return unquoteIdent(expr)
	}
	return syntheticColumnName(position)
}

func syntheticColumnName(position int) string {
	return "column" + strconv.Itoa(position+1)
}

func isBareIdentPath(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		seg = strings.Trim(seg, `"`)
		if seg == "" {
			return false
		}
		for _, r := range seg {
			if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
	}
	return true
}

func findKeyword(s, kw string) int {
	upper := strings.ToUpper(s)
	target := strings.ToUpper(kw)
	for i := 0; i+len(target) <= len(upper); i++ {
		if upper[i:i+len(target)] != target {
			continue
		}
		before := i == 0 || !isIdentRune(rune(upper[i-1]))
		after := i+len(target) == len(upper) || !isIdentRune(rune(upper[i+len(target)]))
		if before && after {
			return i
		}
	}
	return -1
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// splitTopLevel splits s on sep, ignoring occurrences inside
// parentheses or single-quoted strings.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	inStr := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'':
			inStr = !inStr
			cur.WriteRune(r)
		case inStr:
			cur.WriteRune(r)
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case r == sep && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}
