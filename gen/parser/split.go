package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const delimiterDirective = "DELIMITER"

// SplitConfig controls how Split breaks text into statements
type SplitConfig struct {
	// Delimiter ending each statement, ";" when empty
	Delimiter string
	// Trim surrounding whitespace from each statement
	Trim bool
	// AllowDelimiterChange honours "DELIMITER <new>" lines
	AllowDelimiterChange bool
	// RemoveComments excises comment text from the statements
	RemoveComments bool
	// IgnoreDelimiterInBracket does not split inside (), [] or {},
	// and fails on a closing bracket that does not match
	IgnoreDelimiterInBracket bool
}

var (
	// StatementSplit breaks a script into top level statements
	StatementSplit = SplitConfig{
		Delimiter:            ";",
		Trim:                 true,
		AllowDelimiterChange: true,
		RemoveComments:       true,
	}

	// DefinitionSplit breaks a table body into column and key definitions
	DefinitionSplit = SplitConfig{
		Delimiter:                ",",
		Trim:                     true,
		RemoveComments:           true,
		IgnoreDelimiterInBracket: true,
	}
)

type commentKind int

const (
	noComment commentKind = iota
	blockComment
	lineComment
)

type splitter struct {
	cfg   SplitConfig
	delim []byte

	buf     []byte
	quote   rune
	escaped bool

	comment      commentKind
	commentStart int

	brackets []rune

	// directive is set while a DELIMITER line is read, directiveText
	// holds that line without its comments
	directive     bool
	directiveText []byte

	statements []string
}

// Split scans the input once, left to right, and returns the statements
// in order. Delimiters inside quotes and comments never split.
// The only failure is an unmatched closing bracket, in which case no
// statements are returned.
func Split(input string, cfg SplitConfig) ([]string, error) {
	if cfg.Delimiter == "" {
		cfg.Delimiter = ";"
	}

	s := &splitter{cfg: cfg, delim: []byte(cfg.Delimiter)}
	for i, r := range input {
		var next byte
		if i+1 < len(input) {
			next = input[i+1]
		}

		if err := s.step(r, next); err != nil {
			return nil, err
		}
	}

	s.finish()
	return s.statements, nil
}

func (s *splitter) step(r rune, next byte) error {
	switch s.comment {
	case blockComment:
		s.buf = utf8.AppendRune(s.buf, r)
		if len(s.buf)-s.commentStart >= 4 && bytes.HasSuffix(s.buf, []byte("*/")) {
			s.closeComment()
		}
		return nil

	case lineComment:
		if r != '\n' && r != '\r' {
			s.buf = utf8.AppendRune(s.buf, r)
			return nil
		}
		// the line break is kept and handled like any other character
		s.closeComment()
	}

	if s.directive {
		switch {
		case r == '\n' || r == '\r':
			s.endDirective()
			return nil
		case r == '/' && next == '*':
			s.openComment(blockComment)
		case r == '-' && next == '-', r == '#':
			s.openComment(lineComment)
		default:
			s.directiveText = utf8.AppendRune(s.directiveText, r)
		}
		s.buf = utf8.AppendRune(s.buf, r)
		return nil
	}

	if s.quote != 0 {
		s.buf = utf8.AppendRune(s.buf, r)
		switch {
		case s.escaped:
			s.escaped = false
		case r == '\\' && s.quote != '`':
			s.escaped = true
		case r == s.quote:
			s.quote = 0
		}
		return nil
	}

	switch {
	case r == '/' && next == '*':
		s.openComment(blockComment)
	case r == '-' && next == '-', r == '#':
		s.openComment(lineComment)
	case r == '"', r == '\'', r == '`':
		s.quote = r
	case s.cfg.IgnoreDelimiterInBracket && isOpenBracket(r):
		s.brackets = append(s.brackets, r)
	case s.cfg.IgnoreDelimiterInBracket && isCloseBracket(r):
		if err := s.closeBracket(r); err != nil {
			return err
		}
	}

	s.buf = utf8.AppendRune(s.buf, r)
	if s.comment != noComment || s.quote != 0 || len(s.brackets) > 0 {
		return nil
	}

	if s.cfg.AllowDelimiterChange && isDirective(s.buf) {
		s.directive = true
		s.directiveText = append(s.directiveText[:0], s.buf...)
		return nil
	}

	if bytes.HasSuffix(s.buf, s.delim) {
		s.emit(s.buf[:len(s.buf)-len(s.delim)])
	}

	return nil
}

func (s *splitter) openComment(kind commentKind) {
	s.comment = kind
	s.commentStart = len(s.buf)
}

func (s *splitter) closeComment() {
	if s.cfg.RemoveComments {
		s.buf = s.buf[:s.commentStart]
		if s.comment == blockComment {
			// keep the tokens on either side apart
			s.buf = append(s.buf, ' ')
		}
	}
	s.comment = noComment
}

func (s *splitter) closeBracket(r rune) error {
	if len(s.brackets) == 0 {
		return fmt.Errorf("%w: %q at %q", ErrUnmatchedBracket, r, s.buf)
	}

	top := s.brackets[len(s.brackets)-1]
	if matchingBracket(top) != r {
		return fmt.Errorf("%w: %q closes %q at %q", ErrUnmatchedBracket, r, top, s.buf)
	}

	s.brackets = s.brackets[:len(s.brackets)-1]
	return nil
}

func (s *splitter) endDirective() {
	text := strings.TrimSpace(string(s.directiveText))
	if delim := strings.TrimSpace(text[len(delimiterDirective):]); delim != "" {
		s.delim = []byte(delim)
	}

	s.buf = s.buf[:0]
	s.directive = false
}

func (s *splitter) emit(stmt []byte) {
	text := string(stmt)
	if s.cfg.Trim {
		text = strings.TrimSpace(text)
	}

	s.statements = append(s.statements, text)
	s.buf = s.buf[:0]
}

func (s *splitter) finish() {
	if s.directive {
		s.endDirective()
		return
	}

	if s.comment != noComment && s.cfg.RemoveComments {
		s.buf = s.buf[:s.commentStart]
	}

	if len(bytes.TrimSpace(s.buf)) > 0 {
		s.emit(s.buf)
	}
}

// isDirective reports whether the buffer is the start of a
// "DELIMITER <new>" line, the keyword followed by a blank
func isDirective(buf []byte) bool {
	text := bytes.TrimLeft(buf, " \t\r\n")
	if len(text) <= len(delimiterDirective) {
		return false
	}
	if !bytes.EqualFold(text[:len(delimiterDirective)], []byte(delimiterDirective)) {
		return false
	}

	c := text[len(delimiterDirective)]
	return c == ' ' || c == '\t'
}

func isOpenBracket(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

func isCloseBracket(r rune) bool {
	return r == ')' || r == ']' || r == '}'
}

func matchingBracket(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}
