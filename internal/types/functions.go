package types

import "strings"

// FuncReturn computes the result type of a built-in SQL function call
// given the types of its arguments. Unrecognized functions return
// Unknown, which Compatible treats as agreeing with anything — an
// unmodeled function must never itself cause a type-mismatch
// diagnostic.
func FuncReturn(name string, args []Type) Type {
	switch strings.ToUpper(name) {
	case "COUNT":
		return T(BigInt)
	case "SUM":
		return sumReturn(args)
	case "AVG":
		return T(Double)
	case "MIN", "MAX":
		if len(args) == 1 {
			return args[0]
		}
		return T(Unknown)
	case "UPPER", "LOWER", "CONCAT", "SUBSTRING", "SUBSTR", "TRIM", "LTRIM", "RTRIM":
		return T(Text)
	case "LENGTH", "CHAR_LENGTH", "CHARACTER_LENGTH":
		return T(Integer)
	case "COALESCE", "IFNULL", "NULLIF":
		return coalesceReturn(args)
	case "NOW", "CURRENT_TIMESTAMP":
		return T(Timestamp)
	case "CURRENT_DATE":
		return T(Date)
	case "ABS", "ROUND", "FLOOR", "CEIL", "CEILING":
		if len(args) == 1 {
			return args[0]
		}
		return T(Unknown)
	default:
		return T(Unknown)
	}
}

// sumReturn promotes integral argument types to BigInt and keeps
// floating/decimal argument types as-is, matching the common-sense
// rule that summing a column never narrows its type.
func sumReturn(args []Type) Type {
	if len(args) != 1 {
		return T(Unknown)
	}
	switch args[0].Kind {
	case Integer, BigInt:
		return T(BigInt)
	case Decimal:
		return T(Decimal)
	case Double:
		return T(Double)
	default:
		return T(Unknown)
	}
}

// coalesceReturn is the first argument type that isn't Unknown; an
// all-Unknown argument list returns Unknown.
func coalesceReturn(args []Type) Type {
	for _, a := range args {
		if a.Kind != Unknown {
			return a
		}
	}
	return T(Unknown)
}
