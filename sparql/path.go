package sparql

// PropertyPath is a regular expression over predicates, used in the
// predicate position of a triple pattern in place of a single IRI.
type PropertyPath interface {
	isPropertyPath()
}

// PathNamedNode is a single predicate IRI used as a (trivial) path.
type PathNamedNode struct{ IRI IRI }

// PathReverse matches the reverse of its inner path (swap subject/object).
type PathReverse struct{ Path PropertyPath }

// PathSequence matches Left followed by Right through a shared midpoint.
type PathSequence struct{ Left, Right PropertyPath }

// PathAlternative matches either Left or Right.
type PathAlternative struct{ Left, Right PropertyPath }

// PathZeroOrOne matches the inner path zero or one times (`?`).
type PathZeroOrOne struct{ Path PropertyPath }

// PathZeroOrMore matches the inner path zero or more times (`*`).
type PathZeroOrMore struct{ Path PropertyPath }

// PathOneOrMore matches the inner path one or more times (`+`).
type PathOneOrMore struct{ Path PropertyPath }

// PathNegatedPropertySet matches any single predicate IRI (optionally
// reversed) not listed, e.g. `!(:p|^:q)`.
type PathNegatedPropertySet struct {
	Iris         []IRI
	ReverseIris  []IRI
}

func (PathNamedNode) isPropertyPath()          {}
func (PathReverse) isPropertyPath()            {}
func (PathSequence) isPropertyPath()           {}
func (PathAlternative) isPropertyPath()        {}
func (PathZeroOrOne) isPropertyPath()          {}
func (PathZeroOrMore) isPropertyPath()         {}
func (PathOneOrMore) isPropertyPath()          {}
func (PathNegatedPropertySet) isPropertyPath() {}
