package token

import "strings"

// Kind classifies a single lexical token.
type Kind int

const (
	EOF Kind = iota
	Invalid

	// punctuation
	Semicolon    // ;
	Comma        // ,
	Dot          // .
	DotDot       // ..
	Ellipsis     // ...
	Colon        // :
	DoubleColon  // ::
	LParen       // (
	RParen       // )
	LBrace       // {
	RBrace       // }
	LBracket     // [
	RBracket     // ]
	At           // @
	Question     // ?
	Percent      // %
	Ampersand    // &
	VerticalBar  // |
	AndAnd       // &&
	OrOr         // ||
	QuestionMark // ?? (null coalescing)
	QuestionCol  // ?: (ternary shorthand)

	// operators
	Assign   // =
	Equal    // ==
	NotEqual // !=
	AnyEqual // ?=
	AllEqual // *=
	Less     // <
	Greater  // >
	LessEq   // <=
	GreaterEq
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Caret    // ^
	Bang     // !
	PlusEq   // +=
	MinusEq  // -=
	Matches  // ~
	NotMatch // !~
	Arrow    // ->
	BackArrow
	BothArrow // <->

	// literals
	Number
	String
	DatetimeString // d"..." or d'...'
	UuidString     // u"..." or u'...'
	RecordString   // r"..." or r'...'
	Duration       // 1h30m
	Regex          // /.../

	Identifier
	Parameter // $name
	RecordID  // table:id, synthesized by the parser
	Keyword

	BadChar
)

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Union returns the smallest span covering both a and b.
func (s Span) Union(o Span) Span {
	if o.Start < s.Start {
		s.Start = o.Start
	}
	if o.End > s.End {
		s.End = o.End
	}
	return s
}

// Token is a single lexical token. Tokens are immutable and carry no tree
// relationships; the original source casing is preserved in Text.
type Token struct {
	Kind Kind
	Span Span
	Text string
}

// Keyword returns the normalized (uppercase) keyword text, or "" if the
// token is not a keyword.
func (t Token) Keyword() string {
	if t.Kind != Keyword {
		return ""
	}
	return strings.ToUpper(t.Text)
}

// Is reports whether the token is the given keyword, case-insensitively.
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && strings.EqualFold(t.Text, kw)
}

// Position is a 1-based line/column pair resolved against the source text.
type Position struct {
	Line   int
	Column int
	Offset int
}

// PositionFor resolves a byte offset to a line/column position.
func PositionFor(src string, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, c := range []byte(src[:offset]) {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col, Offset: offset}
}

// Category groups keywords by their grammatical role.
type Category int

const (
	CategoryNone Category = iota
	CategoryStatement
	CategoryClause
	CategoryDefinition
	CategorySchemaOption
	CategoryType
	CategoryLiteral
	CategoryOperator
)

// keywords maps every recognized keyword (uppercase) to its primary category.
// Recognition is case-insensitive; tokens keep the source casing.
var keywords = map[string]Category{
	// statements
	"SELECT": CategoryStatement, "CREATE": CategoryStatement,
	"UPDATE": CategoryStatement, "DELETE": CategoryStatement,
	"INSERT": CategoryStatement, "UPSERT": CategoryStatement,
	"RELATE": CategoryStatement, "DEFINE": CategoryStatement,
	"REMOVE": CategoryStatement, "ALTER": CategoryStatement,
	"LET": CategoryStatement, "IF": CategoryStatement,
	"FOR": CategoryStatement, "RETURN": CategoryStatement,
	"THROW": CategoryStatement, "BEGIN": CategoryStatement,
	"COMMIT": CategoryStatement, "CANCEL": CategoryStatement,
	"USE": CategoryStatement, "INFO": CategoryStatement,
	"LIVE": CategoryStatement, "KILL": CategoryStatement,
	"SLEEP": CategoryStatement, "SHOW": CategoryStatement,
	"REBUILD": CategoryStatement, "OPTION": CategoryStatement,
	"BREAK": CategoryStatement, "CONTINUE": CategoryStatement,

	// clauses
	"FROM": CategoryClause, "WHERE": CategoryClause,
	"SET": CategoryClause, "UNSET": CategoryClause,
	"CONTENT": CategoryClause, "MERGE": CategoryClause,
	"PATCH": CategoryClause, "REPLACE": CategoryClause,
	"ONLY": CategoryClause, "LIMIT": CategoryClause,
	"START": CategoryClause, "ORDER": CategoryClause,
	"GROUP": CategoryClause, "BY": CategoryClause,
	"SPLIT": CategoryClause, "FETCH": CategoryClause,
	"TIMEOUT": CategoryClause, "PARALLEL": CategoryClause,
	"EXPLAIN": CategoryClause, "WITH": CategoryClause,
	"OMIT": CategoryClause, "VERSION": CategoryClause,
	"VALUE": CategoryClause, "INTO": CategoryClause,
	"ON": CategoryClause, "DUPLICATE": CategoryClause,
	"KEY": CategoryClause, "AS": CategoryClause,
	"AT": CategoryClause, "ASC": CategoryClause,
	"DESC": CategoryClause, "COLLATE": CategoryClause,
	"NUMERIC": CategoryClause, "NOINDEX": CategoryClause,
	"THEN": CategoryClause, "ELSE": CategoryClause,
	"END": CategoryClause, "TRANSACTION": CategoryClause,
	"WHEN": CategoryClause, "DIFF": CategoryClause,
	"SINCE": CategoryClause, "CHANGES": CategoryClause,
	"TEMPFILES": CategoryClause, "ALL": CategoryClause,
	"WHERES": CategoryClause, "IGNORE": CategoryClause,

	// definition targets
	"TABLE": CategoryDefinition, "FIELD": CategoryDefinition,
	"INDEX": CategoryDefinition, "EVENT": CategoryDefinition,
	"FUNCTION": CategoryDefinition, "PARAM": CategoryDefinition,
	"ANALYZER": CategoryDefinition, "ACCESS": CategoryDefinition,
	"USER": CategoryDefinition, "NAMESPACE": CategoryDefinition,
	"DATABASE": CategoryDefinition, "SCOPE": CategoryDefinition,
	"TOKEN": CategoryDefinition,

	// schema options
	"SCHEMAFULL": CategorySchemaOption, "SCHEMALESS": CategorySchemaOption,
	"PERMISSIONS": CategorySchemaOption, "FULL": CategorySchemaOption,
	"FLEXIBLE": CategorySchemaOption, "READONLY": CategorySchemaOption,
	"TYPE": CategorySchemaOption, "DEFAULT": CategorySchemaOption,
	"ASSERT": CategorySchemaOption, "DROP": CategorySchemaOption,
	"CHANGEFEED": CategorySchemaOption, "COMMENT": CategorySchemaOption,
	"OVERWRITE": CategorySchemaOption, "EXISTS": CategorySchemaOption,
	"UNIQUE": CategorySchemaOption, "SEARCH": CategorySchemaOption,
	"MTREE": CategorySchemaOption, "HNSW": CategorySchemaOption,
	"COLUMNS": CategorySchemaOption, "FIELDS": CategorySchemaOption,
	"DIMENSION": CategorySchemaOption, "DIST": CategorySchemaOption,
	"EUCLIDEAN": CategorySchemaOption, "COSINE": CategorySchemaOption,
	"MANHATTAN": CategorySchemaOption, "MINKOWSKI": CategorySchemaOption,
	"CAPACITY": CategorySchemaOption, "EFC": CategorySchemaOption,
	"M0": CategorySchemaOption, "LM": CategorySchemaOption,
	"BM25": CategorySchemaOption, "HIGHLIGHTS": CategorySchemaOption,
	"TOKENIZERS": CategorySchemaOption, "FILTERS": CategorySchemaOption,
	"ASCII": CategorySchemaOption, "LOWERCASE": CategorySchemaOption,
	"UPPERCASE": CategorySchemaOption, "EDGENGRAM": CategorySchemaOption,
	"NGRAM": CategorySchemaOption, "SNOWBALL": CategorySchemaOption,
	"BLANK": CategorySchemaOption, "CAMEL": CategorySchemaOption,
	"CLASS": CategorySchemaOption, "PUNCT": CategorySchemaOption,
	"JWT": CategorySchemaOption, "BEARER": CategorySchemaOption,
	"SIGNIN": CategorySchemaOption, "SIGNUP": CategorySchemaOption,
	"ALGORITHM": CategorySchemaOption, "ISSUER": CategorySchemaOption,
	"SESSION": CategorySchemaOption, "AUTHENTICATE": CategorySchemaOption,
	"ROOT": CategorySchemaOption, "ROLES": CategorySchemaOption,
	"PASSWORD": CategorySchemaOption, "PASSHASH": CategorySchemaOption,
	"CONCURRENTLY": CategorySchemaOption,

	// type names
	"ANY": CategoryType, "ARRAY": CategoryType, "OBJECT": CategoryType,
	"RECORD": CategoryType, "STRING": CategoryType, "INT": CategoryType,
	"FLOAT": CategoryType, "DECIMAL": CategoryType, "NUMBER": CategoryType,
	"BOOL": CategoryType, "DATETIME": CategoryType, "DURATION": CategoryType,
	"BYTES": CategoryType, "UUID": CategoryType, "GEOMETRY": CategoryType,
	"FUTURE": CategoryType, "EITHER": CategoryType, "RANGE": CategoryType,
	"LITERAL": CategoryType,

	// literal keywords
	"TRUE": CategoryLiteral, "FALSE": CategoryLiteral,
	"NULL": CategoryLiteral, "NONE": CategoryLiteral,

	// word operators
	"AND": CategoryOperator, "OR": CategoryOperator, "NOT": CategoryOperator,
	"IS": CategoryOperator, "IN": CategoryOperator,
	"CONTAINS": CategoryOperator, "CONTAINSALL": CategoryOperator,
	"CONTAINSANY": CategoryOperator, "CONTAINSNONE": CategoryOperator,
	"CONTAINSNOT": CategoryOperator, "INSIDE": CategoryOperator,
	"NOTINSIDE": CategoryOperator, "ALLINSIDE": CategoryOperator,
	"ANYINSIDE": CategoryOperator, "NONEINSIDE": CategoryOperator,
	"OUTSIDE": CategoryOperator, "INTERSECTS": CategoryOperator,
	"LIKE": CategoryOperator, "MATCHES": CategoryOperator,
	"KNN": CategoryOperator,
}

// Lookup reports whether name is a keyword and, if so, its category.
func Lookup(name string) (Category, bool) {
	cat, ok := keywords[strings.ToUpper(name)]
	return cat, ok
}

// IsStatementKeyword reports whether the uppercase name starts a statement.
func IsStatementKeyword(name string) bool {
	return keywords[strings.ToUpper(name)] == CategoryStatement
}
