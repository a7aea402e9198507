package parser

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/sparqlkit/sparqlkit/internal/iri"
	"github.com/sparqlkit/sparqlkit/sparql"
)

// aggregateCollector accumulates the aggregates hoisted out of a single
// (possibly nested) SELECT, per spec 4.5.6.
type aggregateCollector struct {
	byKey map[string]sparql.Variable      // structural key -> hoisted variable, for de-duplication
	order []sparql.GroupAggregate
}

func newAggregateCollector() *aggregateCollector {
	return &aggregateCollector{byKey: make(map[string]sparql.Variable)}
}

// register returns the variable that should stand in for agg, reusing an
// existing variable if an observably equal aggregate was already
// registered in this SELECT.
func (c *aggregateCollector) register(agg sparql.AggregateExpression, key string) sparql.Variable {
	if v, ok := c.byKey[key]; ok {
		return v
	}
	v := sparql.Variable(fmt.Sprintf("agg_%d", len(c.order)))
	c.byKey[key] = v
	c.order = append(c.order, sparql.GroupAggregate{Var: v, Agg: agg})
	return v
}

// ParserState is the mutable context threaded through every grammar
// production: the current base IRI, the prefix environment, blank-node
// scoping sets, and a stack of per-SELECT aggregate collectors.
type ParserState struct {
	base          iri.Base
	baseText      string
	namespaces    map[string]string
	usedBnodes    map[string]bool
	currentBnodes map[string]bool
	aggregates    []*aggregateCollector
	bnodeCounter  int
	bnodeSalt     string
}

func newParserState(baseIRI string) (*ParserState, error) {
	st := &ParserState{
		namespaces:    make(map[string]string),
		usedBnodes:    make(map[string]bool),
		currentBnodes: make(map[string]bool),
		bnodeSalt:     randomSalt(),
	}
	if baseIRI != "" {
		b, err := iri.ParseBase(baseIRI)
		if err != nil {
			return nil, &ParseError{Kind: InvalidBaseIRI, Message: err.Error()}
		}
		st.base = b
		st.baseText = b.String()
	}
	return st, nil
}

func randomSalt() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}

// setBase updates the current base IRI, as seen from a BASE declaration.
func (st *ParserState) setBase(raw string) error {
	b, err := iri.ParseBase(raw)
	if err != nil {
		return fmt.Errorf("invalid base IRI %q: %w", raw, err)
	}
	st.base = b
	st.baseText = b.String()
	return nil
}

// resolveIRI resolves ref (absolute or relative) against the current base.
func (st *ParserState) resolveIRI(ref string) (sparql.IRI, error) {
	resolved, err := iri.Resolve(ref, st.base)
	if err != nil {
		return "", err
	}
	return sparql.IRI(resolved), nil
}

// addPrefix records a PREFIX declaration. Prefixes are never removed and a
// later declaration of the same name overrides the earlier one, matching
// the reference grammar's append-only namespace environment.
func (st *ParserState) addPrefix(name, resolvedIRI string) {
	st.namespaces[name] = resolvedIRI
}

// resolvePrefixedName expands ns:local, failing if ns was never declared.
func (st *ParserState) resolvePrefixedName(ns, local string) (sparql.IRI, error) {
	base, ok := st.namespaces[ns]
	if !ok {
		return "", fmt.Errorf("prefix not found: %q", ns)
	}
	return sparql.IRI(base + local), nil
}

// freshBlankNode mints a new anonymous blank-node label. Anonymous blanks
// bypass the used-label re-use check entirely.
func (st *ParserState) freshBlankNode() sparql.BlankNode {
	st.bnodeCounter++
	return sparql.BlankNode(fmt.Sprintf("anon_%s_%d", st.bnodeSalt, st.bnodeCounter))
}

// freshVariable mints a variable guaranteed not to collide with any
// user-written name, for internal rewrites (group keys, aggregate hoisting,
// collection/property-path desugaring that needs a variable rather than a
// blank node).
func (st *ParserState) freshVariable() sparql.Variable {
	st.bnodeCounter++
	return sparql.Variable(fmt.Sprintf("var_%s_%d", st.bnodeSalt, st.bnodeCounter))
}

// useLabeledBlankNode records use of a user-written blank-node label within
// the currently-open group, failing if that label was already used and
// closed in an earlier, disjoint group.
func (st *ParserState) useLabeledBlankNode(label string) (sparql.BlankNode, error) {
	if st.usedBnodes[label] {
		return "", fmt.Errorf("blank node %q re-used across disjoint group graph patterns", label)
	}
	st.currentBnodes[label] = true
	return sparql.BlankNode(label), nil
}

// openGroup is called on entry to a GroupGraphPattern ('{').
// Each group starts with an empty current set; the outer group's set is
// returned so closeGroup can restore it. A label introduced in an outer
// group can still be used inside a directly nested group (it is not yet in
// usedBnodes), but once the nested group closes every label it used is
// marked used, so a later use of that label in any other group is an error.
func (st *ParserState) openGroup() map[string]bool {
	saved := st.currentBnodes
	st.currentBnodes = make(map[string]bool)
	return saved
}

// closeGroup is called on exit from a GroupGraphPattern ('}'): every label
// used in the group just closed moves from currentBnodes into usedBnodes,
// and the previous (outer) currentBnodes set is restored.
func (st *ParserState) closeGroup(saved map[string]bool) {
	for label := range st.currentBnodes {
		st.usedBnodes[label] = true
	}
	st.currentBnodes = saved
}

// pushAggregates pushes a new aggregate collector on entry to a SELECT.
func (st *ParserState) pushAggregates() {
	st.aggregates = append(st.aggregates, newAggregateCollector())
}

// popAggregates pops and returns the aggregate collector for the SELECT
// currently being built.
func (st *ParserState) popAggregates() []sparql.GroupAggregate {
	n := len(st.aggregates)
	top := st.aggregates[n-1]
	st.aggregates = st.aggregates[:n-1]
	return top.order
}

// registerAggregate hoists agg out of the expression currently being
// parsed, failing if no SELECT is open.
func (st *ParserState) registerAggregate(agg sparql.AggregateExpression, key string) (sparql.Variable, error) {
	if len(st.aggregates) == 0 {
		return "", fmt.Errorf("aggregate used outside of a SELECT")
	}
	top := st.aggregates[len(st.aggregates)-1]
	return top.register(agg, key), nil
}

// hasOpenSelect reports whether a SELECT's aggregate collector is active.
func (st *ParserState) hasOpenSelect() bool {
	return len(st.aggregates) > 0
}
