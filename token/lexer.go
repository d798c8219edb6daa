package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans query-language source text and produces tokens. It never
// fails: unrecognized characters become BadChar tokens and unterminated
// literals become Invalid tokens spanning to the end of the line or file.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a new Lexer over the given source text.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, len(input)/4),
	}
}

// Tokenize scans the whole input and returns the token list, terminated by
// a single EOF token.
func Tokenize(input string) []Token {
	return NewLexer(input).Tokenize()
}

func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		start := l.position
		c := l.input[l.position]

		switch {
		case isSpace(c):
			l.position++

		case c == '-' && l.peekAt(1) == '-':
			l.skipLineComment()
		case c == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
		case c == '#':
			l.skipLineComment()
		case c == '/' && l.peekAt(1) == '*':
			l.skipBlockComment()

		case c == '"' || c == '\'':
			l.lexString(start, byte(0))

		case isDigit(c):
			l.lexNumber(start)

		case c == '$':
			l.lexParameter(start)

		case c == '/' && l.regexAllowed():
			l.lexRegex(start)

		case isIdentStart(c):
			l.lexIdent(start)

		case c == 0xE2 && strings.HasPrefix(l.input[l.position:], "⟨"):
			l.lexBracketIdent(start)

		case c == '`':
			l.lexBacktickIdent(start)

		default:
			if !l.lexOperator(start) {
				// Unknown byte. Consume a full rune so multi-byte
				// characters do not produce several BadChar tokens.
				_, size := utf8.DecodeRuneInString(l.input[l.position:])
				l.position += size
				l.add(BadChar, start)
			}
		}
	}

	l.tokens = append(l.tokens, Token{Kind: EOF, Span: Span{Start: l.position, End: l.position}})
	return l.tokens
}

// operators holds every multi- and single-character operator, longest first
// within each leading byte, so matching is maximal munch.
var operators = []struct {
	text string
	kind Kind
}{
	{"<->", BothArrow},
	{"...", Ellipsis},
	{"??", QuestionMark},
	{"?:", QuestionCol},
	{"?=", AnyEqual},
	{"*=", AllEqual},
	{"==", Equal},
	{"!=", NotEqual},
	{"!~", NotMatch},
	{"<=", LessEq},
	{">=", GreaterEq},
	{"&&", AndAnd},
	{"||", OrOr},
	{"::", DoubleColon},
	{"..", DotDot},
	{"->", Arrow},
	{"<-", BackArrow},
	{"+=", PlusEq},
	{"-=", MinusEq},
	{";", Semicolon},
	{",", Comma},
	{".", Dot},
	{":", Colon},
	{"(", LParen},
	{")", RParen},
	{"{", LBrace},
	{"}", RBrace},
	{"[", LBracket},
	{"]", RBracket},
	{"@", At},
	{"?", Question},
	{"%", Percent},
	{"&", Ampersand},
	{"|", VerticalBar},
	{"=", Assign},
	{"<", Less},
	{">", Greater},
	{"+", Plus},
	{"-", Minus},
	{"*", Star},
	{"/", Slash},
	{"^", Caret},
	{"!", Bang},
	{"~", Matches},
}

func (l *Lexer) lexOperator(start int) bool {
	rest := l.input[l.position:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.position += len(op.text)
			l.add(op.kind, start)
			return true
		}
	}
	return false
}

func (l *Lexer) lexIdent(start int) {
	for l.position < len(l.input) && isIdentPart(l.input[l.position]) {
		l.position++
	}
	text := l.input[start:l.position]

	// Single-letter prefix immediately followed by a quote marks a typed
	// string literal: d"..." datetime, u"..." uuid, r"..." record.
	if len(text) == 1 && l.position < len(l.input) {
		if q := l.input[l.position]; q == '"' || q == '\'' {
			switch text[0] {
			case 'd', 'D':
				l.lexString(start, 'd')
				return
			case 'u', 'U':
				l.lexString(start, 'u')
				return
			case 'r', 'R':
				l.lexString(start, 'r')
				return
			}
		}
	}

	if _, ok := Lookup(text); ok {
		l.add(Keyword, start)
		return
	}
	l.add(Identifier, start)
}

func (l *Lexer) lexParameter(start int) {
	l.position++ // $
	for l.position < len(l.input) && isIdentPart(l.input[l.position]) {
		l.position++
	}
	if l.position == start+1 {
		l.add(BadChar, start)
		return
	}
	l.add(Parameter, start)
}

// lexString scans a quoted literal. prefix is 0 for plain strings, or one
// of 'd', 'u', 'r' for datetime/uuid/record strings. An unterminated
// literal produces an Invalid token spanning to end of line or file.
func (l *Lexer) lexString(start int, prefix byte) {
	quote := l.input[l.position]
	l.position++
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '\\' && l.position+1 < len(l.input) {
			l.position += 2
			continue
		}
		if c == quote {
			l.position++
			switch prefix {
			case 'd':
				l.add(DatetimeString, start)
			case 'u':
				l.add(UuidString, start)
			case 'r':
				l.add(RecordString, start)
			default:
				l.add(String, start)
			}
			return
		}
		if c == '\n' {
			break
		}
		l.position++
	}
	l.add(Invalid, start)
}

func (l *Lexer) lexNumber(start int) {
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.position++
	}

	// Duration literals are digit+unit segments: 1h30m, 500ms, 2w.
	if unit := l.peekDurationUnit(); unit > 0 {
		l.position += unit
		for {
			segStart := l.position
			for l.position < len(l.input) && isDigit(l.input[l.position]) {
				l.position++
			}
			if l.position == segStart {
				break
			}
			unit = l.peekDurationUnit()
			if unit == 0 {
				l.position = segStart
				break
			}
			l.position += unit
		}
		l.add(Duration, start)
		return
	}

	// Fraction, taking care not to consume a range operator `..`.
	if l.position < len(l.input) && l.input[l.position] == '.' && isDigit(l.peekAt(1)) {
		l.position++
		for l.position < len(l.input) && isDigit(l.input[l.position]) {
			l.position++
		}
	}

	// Exponent.
	if l.position < len(l.input) && (l.input[l.position] == 'e' || l.input[l.position] == 'E') {
		mark := l.position
		l.position++
		if l.position < len(l.input) && (l.input[l.position] == '+' || l.input[l.position] == '-') {
			l.position++
		}
		if l.position < len(l.input) && isDigit(l.input[l.position]) {
			for l.position < len(l.input) && isDigit(l.input[l.position]) {
				l.position++
			}
		} else {
			l.position = mark
		}
	}

	// Numeric suffixes: 1f (float), 1dec (decimal).
	switch {
	case l.hasSuffix("dec"):
		l.position += 3
	case l.hasSuffix("f"):
		l.position++
	}

	l.add(Number, start)
}

// durationUnits are ordered longest first for maximal munch.
var durationUnits = []string{"ms", "us", "µs", "ns", "y", "w", "d", "h", "m", "s"}

// peekDurationUnit returns the byte length of a duration unit at the
// current position, or 0. The unit must not be followed by more identifier
// characters (so `1m` is a duration but `1min` is not).
func (l *Lexer) peekDurationUnit() int {
	rest := l.input[l.position:]
	for _, u := range durationUnits {
		if strings.HasPrefix(rest, u) {
			next := l.position + len(u)
			if next < len(l.input) && isIdentPart(l.input[next]) {
				continue
			}
			// A digit after the unit starts the next segment (1h30m).
			return len(u)
		}
	}
	// Segment units inside a multi-segment duration may be followed by a
	// digit rather than a boundary.
	for _, u := range durationUnits {
		if strings.HasPrefix(rest, u) && isDigit(l.peekAt(len(u))) {
			return len(u)
		}
	}
	return 0
}

func (l *Lexer) hasSuffix(s string) bool {
	if !strings.HasPrefix(l.input[l.position:], s) {
		return false
	}
	next := l.position + len(s)
	return next >= len(l.input) || !isIdentPart(l.input[next])
}

func (l *Lexer) lexRegex(start int) {
	l.position++ // opening /
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '\\' && l.position+1 < len(l.input) {
			l.position += 2
			continue
		}
		if c == '/' {
			l.position++
			l.add(Regex, start)
			return
		}
		if c == '\n' {
			break
		}
		l.position++
	}
	l.add(Invalid, start)
}

func (l *Lexer) lexBracketIdent(start int) {
	l.position += len("⟨")
	for l.position < len(l.input) {
		if strings.HasPrefix(l.input[l.position:], "⟩") {
			l.position += len("⟩")
			l.add(Identifier, start)
			return
		}
		_, size := utf8.DecodeRuneInString(l.input[l.position:])
		l.position += size
	}
	l.add(Invalid, start)
}

func (l *Lexer) lexBacktickIdent(start int) {
	l.position++ // opening `
	for l.position < len(l.input) {
		if l.input[l.position] == '`' {
			l.position++
			l.add(Identifier, start)
			return
		}
		if l.input[l.position] == '\n' {
			break
		}
		l.position++
	}
	l.add(Invalid, start)
}

func (l *Lexer) skipLineComment() {
	for l.position < len(l.input) && l.input[l.position] != '\n' {
		l.position++
	}
}

func (l *Lexer) skipBlockComment() {
	l.position += 2
	for l.position < len(l.input) {
		if strings.HasPrefix(l.input[l.position:], "*/") {
			l.position += 2
			return
		}
		l.position++
	}
}

// regexAllowed reports whether a `/` at the current position can start a
// regex literal: only where the previous token cannot end an expression.
func (l *Lexer) regexAllowed() bool {
	if len(l.tokens) == 0 {
		return true
	}
	switch prev := l.tokens[len(l.tokens)-1]; prev.Kind {
	case Number, String, DatetimeString, UuidString, RecordString, Duration,
		Regex, Identifier, Parameter, RParen, RBracket, RBrace:
		return false
	case Keyword:
		// Literal keywords (true, NONE, ...) end an expression.
		cat, _ := Lookup(prev.Text)
		return cat != CategoryLiteral
	default:
		return true
	}
}

func (l *Lexer) add(kind Kind, start int) {
	l.tokens = append(l.tokens, Token{
		Kind: kind,
		Span: Span{Start: start, End: l.position},
		Text: l.input[start:l.position],
	})
}

func (l *Lexer) peekAt(offset int) byte {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || unicode.IsSpace(rune(c))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
