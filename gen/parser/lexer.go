package parser

import (
	"fmt"
	"strings"

	"github.com/antlr4-go/antlr/v4"
	mysqlparser "github.com/stephenafamo/sqlparser/mysql"
)

type tokenKind int

const (
	// a bare word: keyword, identifier, number
	tokenWord tokenKind = iota
	// a quoted identifier or string literal, quotes stripped
	tokenQuoted
	// a balanced parenthesised group, text is the raw inner text
	tokenGroup
	// one of , . = ;
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
}

// isWord matches a bare word case-insensitively.
// Quoted tokens never match, so literals are never read as keywords.
func (t token) isWord(word string) bool {
	return t.kind == tokenWord && strings.EqualFold(t.text, word)
}

func (t token) isIdent() bool {
	return t.kind == tokenWord || t.kind == tokenQuoted
}

// lex breaks a single statement or definition into tokens using the
// MySQL lexer. Hidden channel tokens (blanks, comments) are dropped and
// bracketed text is folded into a single group token.
func lex(input string) ([]token, error) {
	el := &errorListener{}

	lexer := mysqlparser.NewMySqlLexer(antlr.NewInputStream(input))
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(el)

	stream := antlr.NewCommonTokenStream(lexer, antlr.TokenDefaultChannel)
	stream.Fill()
	if el.err != "" {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, el.err)
	}

	var visible []antlr.Token
	for _, t := range stream.GetAllTokens() {
		if t.GetTokenType() == antlr.TokenEOF {
			continue
		}

		switch ch := t.GetChannel(); {
		case ch == antlr.TokenDefaultChannel:
			visible = append(visible, t)
		case ch != antlr.TokenHiddenChannel && !strings.HasPrefix(t.GetText(), "/*"):
			// characters the lexer cannot match are parked on an error channel
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.GetText())
		}
	}

	runes := []rune(input)
	var tokens []token

	for i := 0; i < len(visible); i++ {
		t := visible[i]

		switch t.GetTokenType() {
		case mysqlparser.MySqlParserLR_BRACKET:
			end, err := groupEnd(visible, i)
			if err != nil {
				return nil, err
			}
			inner := string(runes[t.GetStop()+1 : visible[end].GetStart()])
			tokens = append(tokens, token{kind: tokenGroup, text: inner})
			i = end

		case mysqlparser.MySqlParserRR_BRACKET:
			return nil, fmt.Errorf("%w: unexpected ')'", ErrSyntax)

		case mysqlparser.MySqlParserREVERSE_QUOTE_ID, mysqlparser.MySqlParserSTRING_LITERAL:
			tokens = append(tokens, token{kind: tokenQuoted, text: unquote(t.GetText())})

		case mysqlparser.MySqlParserDOT_ID:
			tokens = append(tokens,
				token{kind: tokenPunct, text: "."},
				token{kind: tokenWord, text: t.GetText()[1:]},
			)

		default:
			text := t.GetText()
			kind := tokenWord
			if isPunct(text) {
				kind = tokenPunct
			}
			tokens = append(tokens, token{kind: kind, text: text})
		}
	}

	return tokens, nil
}

func isPunct(text string) bool {
	switch text {
	case ",", ".", "=", ";":
		return true
	}
	return false
}

// groupEnd finds the bracket closing the one at start
func groupEnd(tokens []antlr.Token, start int) (int, error) {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].GetTokenType() {
		case mysqlparser.MySqlParserLR_BRACKET:
			depth++
		case mysqlparser.MySqlParserRR_BRACKET:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: unclosed '('", ErrSyntax)
}

// unquote strips the quotes of a literal or quoted identifier.
// A doubled quote character or, outside back-ticks, a backslash escapes.
func unquote(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}

	q := runes[0]
	var sb strings.Builder

	for i := 1; i < len(runes)-1; i++ {
		r := runes[i]
		switch {
		case r == '\\' && q != '`' && i+1 < len(runes)-1:
			i++
			sb.WriteRune(runes[i])
		case r == q && i+1 < len(runes)-1 && runes[i+1] == q:
			i++
			sb.WriteRune(q)
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// tokenStream is a cursor over the tokens of one statement
type tokenStream struct {
	tokens []token
	pos    int
}

func newStream(tokens []token) *tokenStream {
	return &tokenStream{tokens: tokens}
}

func (s *tokenStream) done() bool {
	return s.pos >= len(s.tokens)
}

func (s *tokenStream) peek() (token, bool) {
	if s.done() {
		return token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *tokenStream) next() (token, bool) {
	t, ok := s.peek()
	if ok {
		s.pos++
	}
	return t, ok
}

// peekWords reports whether the upcoming tokens are the given words
func (s *tokenStream) peekWords(words ...string) bool {
	if s.pos+len(words) > len(s.tokens) {
		return false
	}
	for i, w := range words {
		if !s.tokens[s.pos+i].isWord(w) {
			return false
		}
	}
	return true
}

// accept consumes the words if they come next
func (s *tokenStream) accept(words ...string) bool {
	if !s.peekWords(words...) {
		return false
	}
	s.pos += len(words)
	return true
}

func (s *tokenStream) acceptPunct(p string) bool {
	t, ok := s.peek()
	if !ok || t.kind != tokenPunct || t.text != p {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) ident() (string, bool) {
	t, ok := s.peek()
	if !ok || !t.isIdent() {
		return "", false
	}
	s.pos++
	return t.text, true
}

func (s *tokenStream) group() (string, bool) {
	t, ok := s.peek()
	if !ok || t.kind != tokenGroup {
		return "", false
	}
	s.pos++
	return t.text, true
}

// qualifiedName reads name or qualifier.name
func (s *tokenStream) qualifiedName() (qualifier, name string, ok bool) {
	name, ok = s.ident()
	if !ok {
		return "", "", false
	}

	if !s.acceptPunct(".") {
		return "", name, true
	}

	qualifier = name
	name, ok = s.ident()
	return qualifier, name, ok
}
