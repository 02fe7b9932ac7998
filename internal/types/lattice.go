// Package types implements the analyzer's type lattice: a small,
// dialect-agnostic set of logical types plus a pure compatibility
// relation used to flag type mismatches in comparisons and
// assignments.
package types

import "strings"

// Kind is the tag of the type lattice. Unknown is the bottom element:
// it is compatible with everything, because the analyzer could not
// determine a concrete type (an unrecognized function, a dynamic
// parameter, a raw type keyword it doesn't model). Null is its own
// kind because NULL is compatible with every other kind by SQL's own
// three-valued logic, but two NULLs still agree with each other.
type Kind int

const (
	Unknown Kind = iota
	Null
	Integer
	BigInt
	Decimal
	Double
	Text
	Boolean
	Date
	Timestamp
	Bytes
	JSON
	UUID
	Enum
)

// Type is a tagged variant: most Kinds need nothing further, but Enum
// carries the name of the user-defined enum type so that two different
// enums are not considered compatible with each other even though both
// report Kind == Enum.
type Type struct {
	Kind    Kind
	EnumRef string
}

func T(k Kind) Type { return Type{Kind: k} }

func EnumType(name string) Type { return Type{Kind: Enum, EnumRef: name} }

func (t Type) String() string {
	if t.Kind == Enum {
		return "enum(" + t.EnumRef + ")"
	}
	switch t.Kind {
	case Unknown:
		return "unknown"
	case Null:
		return "null"
	case Integer:
		return "integer"
	case BigInt:
		return "bigint"
	case Decimal:
		return "decimal"
	case Double:
		return "double"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	case Bytes:
		return "bytes"
	case JSON:
		return "json"
	case UUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// numericKinds is the set of numeric kinds, so Compatible can treat any
// pair of numeric kinds as mutually compatible (SQL promotes freely among
// them) while still rejecting numeric-vs-non-numeric comparisons.
var numericKinds = map[Kind]bool{
	Integer: true,
	BigInt:  true,
	Decimal: true,
	Double:  true,
}

var temporalKinds = map[Kind]bool{
	Date:      true,
	Timestamp: true,
}

// Compatible reports whether two types may be compared, assigned, or
// passed to the same function argument without a type-mismatch
// diagnostic. It is a pure function of its two arguments: it consults
// no catalog state.
func Compatible(a, b Type) bool {
	if a.Kind == Unknown || b.Kind == Unknown {
		return true
	}
	if a.Kind == Null || b.Kind == Null {
		return true
	}
	if a.Kind == b.Kind {
		if a.Kind == Enum {
			return a.EnumRef == b.EnumRef || a.EnumRef == "" || b.EnumRef == ""
		}
		return true
	}
	if numericKinds[a.Kind] && numericKinds[b.Kind] {
		return true
	}
	if temporalKinds[a.Kind] && temporalKinds[b.Kind] {
		return true
	}
	return false
}

// FromRawType maps a normalized base type keyword (as produced by
// catalog's raw-type normalizer, e.g. "VARCHAR", "TIMESTAMP WITH TIME
// ZONE") onto a lattice Kind. Unrecognized keywords map to Unknown
// rather than erroring: an unmodeled type should never by itself
// produce a type-mismatch diagnostic.
func FromRawType(base string) Type {
	switch strings.ToUpper(strings.TrimSpace(base)) {
	case "SMALLINT", "INT2", "INTEGER", "INT", "INT4", "MEDIUMINT", "TINYINT", "YEAR":
		return T(Integer)
	case "BIGINT", "INT8", "SERIAL", "BIGSERIAL", "SMALLSERIAL", "SERIAL2", "SERIAL4", "SERIAL8":
		return T(BigInt)
	case "DECIMAL", "DEC", "NUMERIC", "MONEY":
		return T(Decimal)
	case "REAL", "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "DOUBLE PRECISION":
		return T(Double)
	case "CHAR", "VARCHAR", "CHARACTER", "CHARACTER VARYING", "TEXT",
		"TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "NCHAR", "NVARCHAR", "CLOB", "STRING":
		return T(Text)
	case "BOOLEAN", "BOOL":
		return T(Boolean)
	case "DATE":
		return T(Date)
	case "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE",
		"DATETIME", "TIME", "TIMETZ", "TIME WITH TIME ZONE", "TIME WITHOUT TIME ZONE":
		return T(Timestamp)
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return T(Bytes)
	case "JSON", "JSONB":
		return T(JSON)
	case "UUID":
		return T(UUID)
	default:
		return T(Unknown)
	}
}

// LiteralKindFromSQL classifies a SQL literal's logical type from flags
// describing which kind of literal it is; the first flag set, in
// parameter order with isNull checked first, decides.
func LiteralKindFromSQL(isString, isInt, isFloat, isDecimal, isBool, isNull bool) Type {
	switch {
	case isNull:
		return T(Null)
	case isString:
		return T(Text)
	case isInt:
		return T(Integer)
	case isFloat, isDecimal:
		return T(Double)
	case isBool:
		return T(Boolean)
	default:
		return T(Unknown)
	}
}
