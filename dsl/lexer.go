package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fitLexer tokenizes fit documents. Numbers carry their unit suffix so that
// `12px`, `150%` and `1.2x` reach the layout stage untouched.
var fitLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:px|pt|mm|cm|in|%|x)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

var kinds = newTokenKinds(fitLexer.Symbols())

// tokenKinds caches the token types the hand-written parsers need to tell apart.
type tokenKinds struct {
	names   map[lexer.TokenType]string
	newline lexer.TokenType
	lbrace  lexer.TokenType
	rbrace  lexer.TokenType
	symbol  lexer.TokenType
	str     lexer.TokenType
}

func newTokenKinds(symbols map[string]lexer.TokenType) tokenKinds {
	lookup := func(name string) lexer.TokenType {
		tt, ok := symbols[name]
		if !ok {
			panic(fmt.Sprintf("dsl: token %s not defined", name))
		}
		return tt
	}
	k := tokenKinds{
		names:   make(map[lexer.TokenType]string, len(symbols)),
		newline: lookup("Newline"),
		lbrace:  lookup("LBrace"),
		rbrace:  lookup("RBrace"),
		symbol:  lookup("Symbol"),
		str:     lookup("String"),
	}
	for name, tt := range symbols {
		k.names[tt] = name
	}
	return k
}

// nesting counts the brackets still open inside an expression.
type nesting struct {
	paren, bracket int
}

func (n nesting) flat() bool { return n.paren == 0 && n.bracket == 0 }

func (n *nesting) track(raw string) {
	switch raw {
	case "(":
		n.paren++
	case ")":
		n.paren = max(n.paren-1, 0)
	case "[":
		n.bracket++
	case "]":
		n.bracket = max(n.bracket-1, 0)
	}
}

// endsArgs reports whether tok closes a command's argument list.
func (k tokenKinds) endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case k.newline, k.lbrace, k.rbrace:
		return true
	case k.symbol:
		return tok.Value == ";"
	}
	return false
}

// endsExpr reports whether tok closes an expression at the given nesting.
func (k tokenKinds) endsExpr(tok *lexer.Token, n nesting) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case k.newline, k.lbrace, k.rbrace:
		return n.flat()
	case k.symbol:
		switch tok.Value {
		case ";", ",":
			return n.flat()
		case "]":
			return n.bracket == 0
		}
	}
	return false
}

// Lexeme 是命令参数或表达式中的单个词法单元。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse 让 Lexeme 作为语法中的原子直接读取一个 token。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if kinds.endsArgs(lex.Peek()) {
		return participle.NextMatch
	}
	next, err := readLexeme(lex)
	if err != nil {
		return err
	}
	*l = next
	return nil
}

// Expression 保留原始 token，求值留给使用方。
type Expression struct {
	Parts []*Lexeme
}

// Parse 读取到行尾、分号或外层括号结束为止。
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var n nesting
	var parts []*Lexeme
	for !kinds.endsExpr(lex.Peek(), n) {
		next, err := readLexeme(lex)
		if err != nil {
			return err
		}
		n.track(next.Raw)
		parts = append(parts, &next)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	e.Parts = parts
	return nil
}

// readLexeme consumes the next token; string tokens are unquoted into Value.
func readLexeme(lex *lexer.PeekingLexer) (Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return Lexeme{}, participle.NextMatch
	}
	name, ok := kinds.names[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	out := Lexeme{Type: name, Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if tok.Type == kinds.str {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, err
		}
		out.Value = unquoted
	}
	return out, nil
}

// StringLiteral 在捕获时去掉引号并处理转义。
type StringLiteral string

func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量为空")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}
