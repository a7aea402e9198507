package sparql

// DatasetClause is one FROM or FROM NAMED clause.
type DatasetClause struct {
	Graph  IRI
	Named  bool
}

// Dataset is the set of FROM/FROM NAMED clauses on a query, if any.
type Dataset struct {
	Default []IRI
	Named   []IRI
}

// IsZero reports whether no FROM/FROM NAMED clause was given.
func (d Dataset) IsZero() bool { return len(d.Default) == 0 && len(d.Named) == 0 }

// QueryForm distinguishes the four SPARQL query forms.
type QueryForm int

const (
	FormSelect QueryForm = iota
	FormConstruct
	FormDescribe
	FormAsk
)

// Query is the top-level IR for any of the four query forms. Exactly the
// fields relevant to Form are meaningful; BaseIRI always reflects the final
// base observed at end-of-document.
type Query struct {
	Form     QueryForm
	BaseIRI  string
	Dataset  Dataset
	Pattern  GraphPattern // WHERE pattern (Select/Construct/Ask); nil for Describe without WHERE
	Template []TriplePattern // CONSTRUCT template

	// Select-only.
	Distinct bool
	Reduced  bool
	Vars     []Variable // projected variables; nil means SELECT *

	// Describe-only.
	DescribeTargets []Term // IRIs or variables named in DESCRIBE
}
