// Package diag defines the diagnostic model emitted by the catalog
// builder and the analyzer: a stable code, a severity, a source span,
// and a human-readable message.
package diag

import (
	"fmt"
	"sort"
)

// Code is one of the six stable diagnostic codes the analyzer emits.
// Codes are part of the public contract: sqlsift.toml's disable list
// and the inline `-- sqlsift:disable` directive both key off them, so
// renumbering a Kind must never happen once shipped.
type Code string

const (
	CodeTableNotFound       Code = "E0001"
	CodeColumnNotFound      Code = "E0002"
	CodeTypeMismatch        Code = "E0003"
	CodeAmbiguousColumn     Code = "E0004"
	CodeColumnCountMismatch Code = "E0005"
	CodeParseError          Code = "E0006"
)

// Kind mirrors Code as an enum convenient for switch statements inside
// the analyzer; Kind.Code() is the only place the two are joined.
type Kind int

const (
	KindTableNotFound Kind = iota
	KindColumnNotFound
	KindAmbiguousColumn
	KindColumnCountMismatch
	KindTypeMismatch
	KindParseError
)

func (k Kind) Code() Code {
	switch k {
	case KindTableNotFound:
		return CodeTableNotFound
	case KindColumnNotFound:
		return CodeColumnNotFound
	case KindAmbiguousColumn:
		return CodeAmbiguousColumn
	case KindColumnCountMismatch:
		return CodeColumnCountMismatch
	case KindTypeMismatch:
		return CodeTypeMismatch
	case KindParseError:
		return CodeParseError
	default:
		panic(fmt.Sprintf("diag: unhandled kind %d", k))
	}
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Span is a 1-based line/column location plus a run length, wide
// enough to underline an identifier or a clause in a text editor.
type Span struct {
	Line   int
	Column int
	Length int
}

// Diagnostic is one finding against a single SQL statement. File is
// filled in by the caller (BuildCatalog/Analyze don't know file names);
// everything else is produced by the component that detected the
// problem.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Span     Span
	Help     string
	File     string

	// order records the position this diagnostic was discovered in,
	// used as the final tiebreaker by Sort so that ties on
	// (line, column, code) remain deterministic across runs.
	order int
}

func (d Diagnostic) Code() Code { return d.Kind.Code() }

func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%d:%d", d.Span.Line, d.Span.Column)
	if d.File != "" {
		loc = d.File + ":" + loc
	}
	return fmt.Sprintf("%s: %s [%s] %s", loc, d.Severity, d.Code(), d.Message)
}

// New builds a Diagnostic of the given kind, stamping its discovery
// order so that Sort can break ties deterministically.
func New(kind Kind, severity Severity, span Span, message string) Diagnostic {
	n := nextOrder()
	return Diagnostic{Kind: kind, Severity: severity, Span: span, Message: message, order: n}
}

// orderCounter is process-local and only needs to distinguish
// diagnostics produced within a single BuildCatalog/Analyze call;
// Sort below is the thing callers actually rely on.
var orderCounter int

func nextOrder() int {
	orderCounter++
	return orderCounter
}

// WithHelp attaches a suggestion string (e.g. "did you mean \"id\"?")
// and returns the diagnostic for chaining.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// WithFile attaches the source file name and returns the diagnostic
// for chaining.
func (d Diagnostic) WithFile(file string) Diagnostic {
	d.File = file
	return d
}

// Sort orders diagnostics ascending by line, then column, then code,
// then discovery order, so that output is identical across runs
// regardless of traversal order inside the analyzer.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Span.Line != b.Span.Line {
			return a.Span.Line < b.Span.Line
		}
		if a.Span.Column != b.Span.Column {
			return a.Span.Column < b.Span.Column
		}
		if a.Code() != b.Code() {
			return a.Code() < b.Code()
		}
		return a.order < b.order
	})
}
