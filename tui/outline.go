package tui

import (
	"fmt"
	"strings"

	"github.com/sparqlkit/sparqlkit/sparql"
)

// Node is one line of the outline tree rendered by View: a label plus the
// nested nodes it expands into.
type Node struct {
	Kind     NodeKind
	Label    string
	Children []Node
}

// leaf builds a childless node.
func leaf(kind NodeKind, label string) Node {
	return Node{Kind: kind, Label: label}
}

// BuildQueryOutline converts a parsed query into an outline tree.
func BuildQueryOutline(q sparql.Query) Node {
	root := Node{Kind: KindQuery, Label: formString(q.Form)}
	if q.BaseIRI != "" {
		root.Children = append(root.Children, leaf(KindClause, "BASE "+q.BaseIRI))
	}
	root.Children = append(root.Children, datasetNodes(q.Dataset)...)

	switch q.Form {
	case sparql.FormSelect:
		mods := Node{Kind: KindClause, Label: selectModifiers(q)}
		root.Children = append(root.Children, mods)
	case sparql.FormConstruct:
		tmpl := Node{Kind: KindClause, Label: fmt.Sprintf("CONSTRUCT TEMPLATE (%d triples)", len(q.Template))}
		for _, t := range q.Template {
			tmpl.Children = append(tmpl.Children, tripleNode(t))
		}
		root.Children = append(root.Children, tmpl)
	case sparql.FormDescribe:
		targets := Node{Kind: KindClause, Label: "DESCRIBE TARGETS"}
		for _, t := range q.DescribeTargets {
			targets.Children = append(targets.Children, leaf(KindTerm, termString(t)))
		}
		root.Children = append(root.Children, targets)
	}

	if q.Pattern != nil {
		where := Node{Kind: KindClause, Label: "WHERE"}
		where.Children = append(where.Children, describePattern(q.Pattern))
		root.Children = append(root.Children, where)
	}
	return root
}

func formString(f sparql.QueryForm) string {
	switch f {
	case sparql.FormSelect:
		return "SELECT"
	case sparql.FormConstruct:
		return "CONSTRUCT"
	case sparql.FormDescribe:
		return "DESCRIBE"
	case sparql.FormAsk:
		return "ASK"
	default:
		return "QUERY"
	}
}

func selectModifiers(q sparql.Query) string {
	var b strings.Builder
	b.WriteString("SELECT")
	if q.Distinct {
		b.WriteString(" DISTINCT")
	}
	if q.Reduced {
		b.WriteString(" REDUCED")
	}
	if q.Vars == nil {
		b.WriteString(" *")
	} else {
		for _, v := range q.Vars {
			b.WriteString(" " + v.String())
		}
	}
	return b.String()
}

func datasetNodes(ds sparql.Dataset) []Node {
	var nodes []Node
	for _, g := range ds.Default {
		nodes = append(nodes, leaf(KindClause, "FROM "+string(g)))
	}
	for _, g := range ds.Named {
		nodes = append(nodes, leaf(KindClause, "FROM NAMED "+string(g)))
	}
	return nodes
}

// BuildUpdateOutline converts a parsed update document into an outline tree.
func BuildUpdateOutline(u sparql.Update) Node {
	root := Node{Kind: KindUpdate, Label: fmt.Sprintf("UPDATE (%d operations)", len(u.Operations))}
	if u.BaseIRI != "" {
		root.Children = append(root.Children, leaf(KindClause, "BASE "+u.BaseIRI))
	}
	for i, op := range u.Operations {
		root.Children = append(root.Children, describeUpdateOp(i, op))
	}
	return root
}

func describeUpdateOp(i int, op sparql.GraphUpdate) Node {
	switch o := op.(type) {
	case sparql.Load:
		label := fmt.Sprintf("%d: LOAD %s%s", i, silentPrefix(o.Silent), o.Source)
		if o.Destination != nil {
			label += " INTO GRAPH " + string(*o.Destination)
		}
		return leaf(KindClause, label)
	case sparql.Clear:
		return leaf(KindClause, fmt.Sprintf("%d: CLEAR %s%s", i, silentPrefix(o.Silent), graphRefString(o.Target)))
	case sparql.Create:
		return leaf(KindClause, fmt.Sprintf("%d: CREATE %sGRAPH %s", i, silentPrefix(o.Silent), o.Graph))
	case sparql.Drop:
		return leaf(KindClause, fmt.Sprintf("%d: DROP %s%s", i, silentPrefix(o.Silent), graphRefString(o.Target)))
	case sparql.InsertData:
		n := Node{Kind: KindClause, Label: fmt.Sprintf("%d: INSERT DATA (%d quads)", i, len(o.Quads))}
		for _, q := range o.Quads {
			n.Children = append(n.Children, leaf(KindTriple, groundQuadString(q)))
		}
		return n
	case sparql.DeleteData:
		n := Node{Kind: KindClause, Label: fmt.Sprintf("%d: DELETE DATA (%d quads)", i, len(o.Quads))}
		for _, q := range o.Quads {
			n.Children = append(n.Children, leaf(KindTriple, groundQuadString(q)))
		}
		return n
	case sparql.DeleteInsert:
		n := Node{Kind: KindClause, Label: fmt.Sprintf("%d: DELETE/INSERT", i)}
		if len(o.Delete) > 0 {
			del := Node{Kind: KindClause, Label: fmt.Sprintf("DELETE (%d quads)", len(o.Delete))}
			for _, q := range o.Delete {
				del.Children = append(del.Children, leaf(KindTriple, quadPatternString(q)))
			}
			n.Children = append(n.Children, del)
		}
		if len(o.Insert) > 0 {
			ins := Node{Kind: KindClause, Label: fmt.Sprintf("INSERT (%d quads)", len(o.Insert))}
			for _, q := range o.Insert {
				ins.Children = append(ins.Children, leaf(KindTriple, quadPatternString(q)))
			}
			n.Children = append(n.Children, ins)
		}
		if o.Pattern != nil {
			where := Node{Kind: KindClause, Label: "WHERE"}
			where.Children = append(where.Children, describePattern(o.Pattern))
			n.Children = append(n.Children, where)
		}
		return n
	default:
		return leaf(KindClause, fmt.Sprintf("%d: <unknown update>", i))
	}
}

func silentPrefix(silent bool) string {
	if silent {
		return "SILENT "
	}
	return ""
}

func graphRefString(ref sparql.GraphRef) string {
	switch ref.Kind {
	case sparql.RefDefault:
		return "DEFAULT"
	case sparql.RefNamed:
		return "NAMED"
	case sparql.RefAll:
		return "ALL"
	default:
		return "GRAPH " + string(ref.Name)
	}
}

func quadPatternString(q sparql.QuadPattern) string {
	return fmt.Sprintf("%s %s %s . (graph %s)", termString(q.Subject), termString(q.Predicate), termString(q.Object), graphNameString(q.Graph))
}

func groundQuadString(q sparql.GroundQuadPattern) string {
	return fmt.Sprintf("%s %s %s . (graph %s)", termString(q.Subject), string(q.Predicate), termString(q.Object), graphNameString(q.Graph))
}

func graphNameString(g sparql.GraphName) string {
	if g == nil {
		return "DEFAULT"
	}
	if s, ok := g.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", g)
}

func tripleNode(t sparql.TriplePattern) Node {
	return leaf(KindTriple, fmt.Sprintf("%s %s %s .", termString(t.Subject), termString(t.Predicate), termString(t.Object)))
}

func termString(t sparql.Term) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// describePattern builds a node for one GraphPattern algebra node, walking
// its children the way a pretty-printer walks a parse tree.
func describePattern(p sparql.GraphPattern) Node {
	switch pat := p.(type) {
	case sparql.Bgp:
		n := Node{Kind: KindPattern, Label: fmt.Sprintf("Bgp (%d triples)", len(pat.Triples))}
		for _, t := range pat.Triples {
			n.Children = append(n.Children, tripleNode(t))
		}
		return n
	case sparql.Path:
		return leaf(KindTriple, fmt.Sprintf("Path: %s %s %s .", termString(pat.Subject), pathString(pat.Path), termString(pat.Object)))
	case sparql.Join:
		return Node{Kind: KindPattern, Label: "Join", Children: []Node{describePattern(pat.Left), describePattern(pat.Right)}}
	case sparql.LeftJoin:
		n := Node{Kind: KindPattern, Label: "LeftJoin (OPTIONAL)"}
		n.Children = append(n.Children, describePattern(pat.Left), describePattern(pat.Right))
		if pat.Expr != nil {
			n.Children = append(n.Children, exprNode("filter", pat.Expr))
		}
		return n
	case sparql.Filter:
		n := Node{Kind: KindPattern, Label: "Filter"}
		n.Children = append(n.Children, exprNode("expr", pat.Expr), describePattern(pat.Inner))
		return n
	case sparql.Union:
		return Node{Kind: KindPattern, Label: "Union", Children: []Node{describePattern(pat.Left), describePattern(pat.Right)}}
	case sparql.Graph:
		n := Node{Kind: KindPattern, Label: "Graph " + graphNameString(pat.Name)}
		n.Children = append(n.Children, describePattern(pat.Inner))
		return n
	case sparql.Extend:
		n := Node{Kind: KindPattern, Label: "Extend " + pat.Var.String()}
		n.Children = append(n.Children, exprNode("expr", pat.Expr), describePattern(pat.Inner))
		return n
	case sparql.Minus:
		return Node{Kind: KindPattern, Label: "Minus", Children: []Node{describePattern(pat.Left), describePattern(pat.Right)}}
	case sparql.Service:
		n := Node{Kind: KindPattern, Label: fmt.Sprintf("Service %s%s", silentPrefix(pat.Silent), graphNameString(pat.Name))}
		n.Children = append(n.Children, describePattern(pat.Inner))
		return n
	case sparql.Group:
		n := Node{Kind: KindPattern, Label: "Group"}
		for _, k := range pat.By {
			if k.Expr != nil {
				n.Children = append(n.Children, exprNode("by "+k.Var.String(), k.Expr))
			} else {
				n.Children = append(n.Children, leaf(KindTerm, "by "+k.Var.String()))
			}
		}
		for _, agg := range pat.Aggregates {
			n.Children = append(n.Children, exprNode(agg.Var.String()+" =", agg.Agg))
		}
		n.Children = append(n.Children, describePattern(pat.Inner))
		return n
	case sparql.OrderBy:
		n := Node{Kind: KindPattern, Label: "OrderBy"}
		for _, c := range pat.Conditions {
			dir := "ASC"
			if c.Direction == sparql.Descending {
				dir = "DESC"
			}
			n.Children = append(n.Children, exprNode(dir, c.Expr))
		}
		n.Children = append(n.Children, describePattern(pat.Inner))
		return n
	case sparql.Project:
		label := "Project"
		for _, v := range pat.Vars {
			label += " " + v.String()
		}
		n := Node{Kind: KindPattern, Label: label}
		n.Children = append(n.Children, describePattern(pat.Inner))
		return n
	case sparql.Distinct:
		return Node{Kind: KindPattern, Label: "Distinct", Children: []Node{describePattern(pat.Inner)}}
	case sparql.Reduced:
		return Node{Kind: KindPattern, Label: "Reduced", Children: []Node{describePattern(pat.Inner)}}
	case sparql.Slice:
		label := fmt.Sprintf("Slice start=%d", pat.Start)
		if pat.Length != nil {
			label += fmt.Sprintf(" length=%d", *pat.Length)
		}
		return Node{Kind: KindPattern, Label: label, Children: []Node{describePattern(pat.Inner)}}
	case sparql.Table:
		label := "Table ("
		for i, v := range pat.Vars {
			if i > 0 {
				label += " "
			}
			label += v.String()
		}
		label += fmt.Sprintf(") %d rows", len(pat.Rows))
		return leaf(KindPattern, label)
	default:
		return leaf(KindPattern, "<unknown pattern>")
	}
}

func pathString(p sparql.PropertyPath) string {
	switch pp := p.(type) {
	case sparql.PathNamedNode:
		return string(pp.IRI)
	case sparql.PathReverse:
		return "^" + pathString(pp.Path)
	case sparql.PathSequence:
		return pathString(pp.Left) + "/" + pathString(pp.Right)
	case sparql.PathAlternative:
		return pathString(pp.Left) + "|" + pathString(pp.Right)
	case sparql.PathZeroOrOne:
		return pathString(pp.Path) + "?"
	case sparql.PathZeroOrMore:
		return pathString(pp.Path) + "*"
	case sparql.PathOneOrMore:
		return pathString(pp.Path) + "+"
	case sparql.PathNegatedPropertySet:
		return "!(...)"
	default:
		return "<path>"
	}
}

// exprNode builds a labeled node for an Expression, recursing into its
// operands so the full expression tree is navigable rather than collapsed
// into one long line.
func exprNode(label string, e sparql.Expression) Node {
	n := Node{Kind: KindExpression, Label: label + ": " + exprSummary(e)}
	for _, child := range exprChildren(e) {
		n.Children = append(n.Children, exprNode("arg", child))
	}
	return n
}

func exprSummary(e sparql.Expression) string {
	switch ex := e.(type) {
	case sparql.TermExpression:
		return termString(ex.Term)
	case sparql.UnaryExpression:
		return unaryOpString(ex.Op)
	case sparql.BinaryExpression:
		return binaryOpString(ex.Op)
	case sparql.FunctionCall:
		return builtinString(ex.Builtin)
	case sparql.ExtensionFunctionCall:
		return string(ex.Name)
	case sparql.ExistsExpression:
		if ex.Negated {
			return "NOT EXISTS"
		}
		return "EXISTS"
	case sparql.AggregateExpression:
		return aggregateKindString(ex.Kind)
	default:
		return "<expr>"
	}
}

func exprChildren(e sparql.Expression) []sparql.Expression {
	switch ex := e.(type) {
	case sparql.UnaryExpression:
		return []sparql.Expression{ex.Operand}
	case sparql.BinaryExpression:
		if len(ex.List) > 0 {
			return append([]sparql.Expression{ex.Left}, ex.List...)
		}
		return []sparql.Expression{ex.Left, ex.Right}
	case sparql.FunctionCall:
		return ex.Args
	case sparql.ExtensionFunctionCall:
		return ex.Args
	case sparql.AggregateExpression:
		if ex.Expr != nil {
			return []sparql.Expression{ex.Expr}
		}
	}
	return nil
}

func unaryOpString(op sparql.UnaryOp) string {
	switch op {
	case sparql.UnaryNot:
		return "!"
	case sparql.UnaryPlus:
		return "+"
	default:
		return "-"
	}
}

func binaryOpString(op sparql.BinaryOp) string {
	switch op {
	case sparql.BinaryOr:
		return "||"
	case sparql.BinaryAnd:
		return "&&"
	case sparql.BinaryEqual:
		return "="
	case sparql.BinaryNotEqual:
		return "!="
	case sparql.BinaryLess:
		return "<"
	case sparql.BinaryLessOrEqual:
		return "<="
	case sparql.BinaryGreater:
		return ">"
	case sparql.BinaryGreaterOrEqual:
		return ">="
	case sparql.BinaryAdd:
		return "+"
	case sparql.BinarySubtract:
		return "-"
	case sparql.BinaryMultiply:
		return "*"
	case sparql.BinaryDivide:
		return "/"
	case sparql.BinaryIn:
		return "IN"
	default:
		return "NOT IN"
	}
}

func aggregateKindString(k sparql.AggregateKind) string {
	switch k {
	case sparql.AggCount:
		return "COUNT"
	case sparql.AggSum:
		return "SUM"
	case sparql.AggMin:
		return "MIN"
	case sparql.AggMax:
		return "MAX"
	case sparql.AggAvg:
		return "AVG"
	case sparql.AggSample:
		return "SAMPLE"
	default:
		return "GROUP_CONCAT"
	}
}

func builtinString(b sparql.BuiltinFunction) string {
	// Builtin names mirror the grammar's own keyword spelling; the enum
	// ordering has no bearing here, so names are looked up in a table keyed
	// by the enum value.
	names := map[sparql.BuiltinFunction]string{
		sparql.BuiltinStr: "STR", sparql.BuiltinLang: "LANG", sparql.BuiltinLangMatches: "LANGMATCHES",
		sparql.BuiltinDatatype: "DATATYPE", sparql.BuiltinBound: "BOUND", sparql.BuiltinIri: "IRI",
		sparql.BuiltinBNode: "BNODE", sparql.BuiltinRand: "RAND", sparql.BuiltinAbs: "ABS",
		sparql.BuiltinCeil: "CEIL", sparql.BuiltinFloor: "FLOOR", sparql.BuiltinRound: "ROUND",
		sparql.BuiltinConcat: "CONCAT", sparql.BuiltinStrLen: "STRLEN", sparql.BuiltinUCase: "UCASE",
		sparql.BuiltinLCase: "LCASE", sparql.BuiltinEncodeForUri: "ENCODE_FOR_URI", sparql.BuiltinContains: "CONTAINS",
		sparql.BuiltinStrStarts: "STRSTARTS", sparql.BuiltinStrEnds: "STRENDS", sparql.BuiltinStrBefore: "STRBEFORE",
		sparql.BuiltinStrAfter: "STRAFTER", sparql.BuiltinYear: "YEAR", sparql.BuiltinMonth: "MONTH",
		sparql.BuiltinDay: "DAY", sparql.BuiltinHours: "HOURS", sparql.BuiltinMinutes: "MINUTES",
		sparql.BuiltinSeconds: "SECONDS", sparql.BuiltinTimezone: "TIMEZONE", sparql.BuiltinTz: "TZ",
		sparql.BuiltinNow: "NOW", sparql.BuiltinUuid: "UUID", sparql.BuiltinStrUuid: "STRUUID",
		sparql.BuiltinMd5: "MD5", sparql.BuiltinSha1: "SHA1", sparql.BuiltinSha256: "SHA256",
		sparql.BuiltinSha384: "SHA384", sparql.BuiltinSha512: "SHA512", sparql.BuiltinCoalesce: "COALESCE",
		sparql.BuiltinIf: "IF", sparql.BuiltinStrLang: "STRLANG", sparql.BuiltinStrDt: "STRDT",
		sparql.BuiltinSameTerm: "sameTerm", sparql.BuiltinIsIri: "isIRI", sparql.BuiltinIsBlank: "isBLANK",
		sparql.BuiltinIsLiteral: "isLITERAL", sparql.BuiltinIsNumeric: "isNUMERIC", sparql.BuiltinRegex: "REGEX",
		sparql.BuiltinSubstr: "SUBSTR", sparql.BuiltinReplace: "REPLACE", sparql.BuiltinTriple: "TRIPLE",
		sparql.BuiltinSubject: "SUBJECT", sparql.BuiltinPredicate: "PREDICATE", sparql.BuiltinObject: "OBJECT",
		sparql.BuiltinIsTriple: "isTRIPLE",
	}
	if name, ok := names[b]; ok {
		return name
	}
	return "<builtin>"
}
