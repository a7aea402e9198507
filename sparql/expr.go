package sparql

// Expression is the value-expression algebra used inside FILTER, BIND,
// ORDER BY, HAVING, and aggregate arguments.
type Expression interface {
	isExpression()
}

// TermExpression wraps a constant term (an IRI, literal, or variable
// reference) as an expression leaf.
type TermExpression struct{ Term Term }

// UnaryOp is the operator kind of a UnaryExpression.
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryPlus
	UnaryMinus
)

// UnaryExpression applies a prefix operator to a single operand.
type UnaryExpression struct {
	Op      UnaryOp
	Operand Expression
}

// BinaryOp is the operator kind of a BinaryExpression.
type BinaryOp int

const (
	BinaryOr BinaryOp = iota
	BinaryAnd
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryLessOrEqual
	BinaryGreater
	BinaryGreaterOrEqual
	BinaryAdd
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryIn
	BinaryNotIn
)

// BinaryExpression applies an infix operator to two operands. For
// BinaryIn/BinaryNotIn, Right is unused and List holds the candidate set.
type BinaryExpression struct {
	Op          BinaryOp
	Left, Right Expression
	List        []Expression
}

// FunctionCall applies a built-in function to arguments.
type FunctionCall struct {
	Builtin BuiltinFunction
	Args    []Expression
}

// ExtensionFunctionCall applies an IRI-named (non-built-in) function to
// arguments, with an optional DISTINCT modifier.
type ExtensionFunctionCall struct {
	Name     IRI
	Args     []Expression
	Distinct bool
}

// BuiltinFunction enumerates SPARQL built-in functions lowered as
// FunctionCall nodes instead of dedicated algebra types, matching the
// reference grammar's treatment of BuiltInCall.
type BuiltinFunction int

const (
	BuiltinNone BuiltinFunction = iota
	BuiltinStr
	BuiltinLang
	BuiltinLangMatches
	BuiltinDatatype
	BuiltinBound
	BuiltinIri
	BuiltinBNode
	BuiltinRand
	BuiltinAbs
	BuiltinCeil
	BuiltinFloor
	BuiltinRound
	BuiltinConcat
	BuiltinStrLen
	BuiltinUCase
	BuiltinLCase
	BuiltinEncodeForUri
	BuiltinContains
	BuiltinStrStarts
	BuiltinStrEnds
	BuiltinStrBefore
	BuiltinStrAfter
	BuiltinYear
	BuiltinMonth
	BuiltinDay
	BuiltinHours
	BuiltinMinutes
	BuiltinSeconds
	BuiltinTimezone
	BuiltinTz
	BuiltinNow
	BuiltinUuid
	BuiltinStrUuid
	BuiltinMd5
	BuiltinSha1
	BuiltinSha256
	BuiltinSha384
	BuiltinSha512
	BuiltinCoalesce
	BuiltinIf
	BuiltinStrLang
	BuiltinStrDt
	BuiltinSameTerm
	BuiltinIsIri
	BuiltinIsBlank
	BuiltinIsLiteral
	BuiltinIsNumeric
	BuiltinRegex
	BuiltinSubstr
	BuiltinReplace
	BuiltinTriple
	BuiltinSubject
	BuiltinPredicate
	BuiltinObject
	BuiltinIsTriple
)

// ExistsExpression evaluates whether its pattern has at least one solution
// against the current binding. Negated encodes `NOT EXISTS`.
type ExistsExpression struct {
	Pattern  GraphPattern
	Negated  bool
}

func (TermExpression) isExpression()         {}
func (UnaryExpression) isExpression()        {}
func (BinaryExpression) isExpression()       {}
func (FunctionCall) isExpression()           {}
func (ExtensionFunctionCall) isExpression()  {}
func (ExistsExpression) isExpression()       {}

// AggregateKind enumerates the SPARQL aggregate functions.
type AggregateKind int

const (
	AggCount AggregateKind = iota
	AggSum
	AggMin
	AggMax
	AggAvg
	AggSample
	AggGroupConcat
)

// AggregateExpression is a grouping-function application. Expr is nil for
// `COUNT(*)`. Separator is only meaningful for AggGroupConcat (default " ").
type AggregateExpression struct {
	Kind      AggregateKind
	Expr      Expression
	Distinct  bool
	Separator string
}

func (AggregateExpression) isExpression() {}
