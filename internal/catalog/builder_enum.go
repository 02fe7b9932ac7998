package catalog

import "sqlsift/internal/sqltext"

// applyEnum registers a CREATE TYPE ... AS ENUM definition, recognized
// directly from statement text (sqltext.MatchEnum) since the TiDB
// grammar has no notion of a standalone enum type.
func (b *builder) applyEnum(def sqltext.EnumDef) {
	b.catalog.enums[normalizeEnumKey(def.Name)] = &EnumType{Name: def.Name, Labels: def.Labels}
}

func normalizeEnumKey(name string) string {
	return toLowerASCII(name)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
