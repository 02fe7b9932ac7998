package catalog

import (
	"regexp"
	"strings"

	"sqlsift/internal/dialect"
)

// parenRe strips parenthesized length/precision/enum-value parts so
// the base type keyword can be matched against a dialect's type set,
// e.g. "VARCHAR(255)" -> "VARCHAR".
var parenRe = regexp.MustCompile(`\([^)]*\)`)

var wsRe = regexp.MustCompile(`\s+`)

var modifierRe = regexp.MustCompile(`(?i)\b(UNSIGNED|SIGNED|ZEROFILL)\b`)

// NormalizeRawTypeBase extracts the base type keyword from a raw
// column type string: it removes parenthesized content, strips
// numeric-modifier keywords, collapses whitespace, and upper-cases
// the result.
//
//	"varchar(255)"                -> "VARCHAR"
//	"TIMESTAMP(6) WITH TIME ZONE" -> "TIMESTAMP WITH TIME ZONE"
//	"INT UNSIGNED"                -> "INT"
func NormalizeRawTypeBase(rawType string) string {
	base := parenRe.ReplaceAllString(rawType, "")
	base = modifierRe.ReplaceAllString(base, "")
	base = wsRe.ReplaceAllString(strings.TrimSpace(base), " ")
	return strings.ToUpper(base)
}

// ValidateRawType reports whether rawType's base keyword is one this
// dialect recognizes. An unrecognized keyword is not itself fatal —
// the caller (builder_table.go) downgrades it to a warning diagnostic
// rather than rejecting the whole column, since the type lattice
// already treats an unrecognized base as Unknown.
func ValidateRawType(rawType string, d dialect.Profile) bool {
	base := NormalizeRawTypeBase(rawType)
	if base == "" {
		return false
	}
	return d.TypeKeywords()[base]
}
