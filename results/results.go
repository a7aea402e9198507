// Package results defines the contract a query-results-reader external
// collaborator implements: given a format tag and a byte stream, yield
// either a boolean (ASK results) or a lazy, finite, non-restartable
// sequence of solutions. The streaming XML/JSON/TSV decoders themselves are
// out of scope here; this package is the interfaces and format dispatcher a
// host wires a real decoder behind.
package results

import (
	"fmt"
	"io"
	"strings"

	"github.com/sparqlkit/sparqlkit/sparql"
)

// Format is a query-results serialization, matching the SPARQL 1.1 Query
// Results formats the dispatcher accepts.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// ParseFormat resolves a format name (MIME subtype or file extension,
// case-insensitively) to a Format. CSV is rejected explicitly: it can't
// distinguish an unbound variable from an empty-string literal, so a lossy
// round-trip through it would silently corrupt solutions.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "xml", "srx", "application/sparql-results+xml":
		return FormatXML, nil
	case "json", "srj", "application/sparql-results+json":
		return FormatJSON, nil
	case "tsv", "text/tab-separated-values":
		return FormatTSV, nil
	case "csv", "text/csv":
		return Format(-1), fmt.Errorf("results: csv is a lossy results format and is not supported")
	default:
		return Format(-1), fmt.Errorf("results: unrecognized format %q", name)
	}
}

// Solution is one row of a SELECT result: a binding for some subset of Vars.
// A nil entry at position i means Vars[i] is unbound in this solution.
type Solution []sparql.Term

// SolutionReader is a lazy, finite, non-restartable sequence of solutions
// over a fixed, ordered variable list. Next returns io.EOF once exhausted.
type SolutionReader interface {
	// Vars is the ordered projected variable list shared by every Solution.
	Vars() []string

	// Next returns the next solution, or io.EOF when the sequence is done.
	Next() (Solution, error)

	// Close releases resources held by the underlying stream.
	Close() error
}

// Result is the outcome of reading a results document: exactly one of
// Boolean or Solutions is set, matching the ASK/SELECT split in the data
// model.
type Result struct {
	Boolean   *bool
	Solutions SolutionReader
}

// Decoder constructs a SolutionReader (or boolean Result) from a byte
// stream already known to be in one particular Format. Real decoders for
// each Format are supplied by the host; this package only defines the shape
// they implement and dispatches to whichever one is registered.
type Decoder interface {
	Decode(r io.Reader) (Result, error)
}

// Registry maps a Format to the Decoder a host has wired up for it.
type Registry map[Format]Decoder

// Open dispatches to the Decoder registered for format, returning an error
// if none is registered. This is the whole of the "format dispatcher" this
// package promises: actually parsing XML/JSON/TSV bytes into Solutions is
// an external collaborator's job.
func (reg Registry) Open(format Format, r io.Reader) (Result, error) {
	dec, ok := reg[format]
	if !ok {
		return Result{}, fmt.Errorf("results: no decoder registered for format %q", format)
	}
	return dec.Decode(r)
}
