package parser

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
	mysqlparser "github.com/stephenafamo/sqlparser/mysql"
)

// lint runs a statement through the full MySQL grammar
func lint(stmt string) error {
	el := &errorListener{}

	lexer := mysqlparser.NewMySqlLexer(antlr.NewInputStream(stmt))
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(el)

	stream := antlr.NewCommonTokenStream(lexer, 0)
	sqlParser := mysqlparser.NewMySqlParser(stream)
	sqlParser.RemoveErrorListeners()
	sqlParser.AddErrorListener(el)

	sqlParser.Root()
	if el.err != "" {
		return fmt.Errorf("%w: %s", ErrSyntax, el.err)
	}

	return nil
}

type errorListener struct {
	*antlr.DefaultErrorListener

	err string
}

func (el *errorListener) SyntaxError(recognizer antlr.Recognizer, offendingSymbol any, line, column int, msg string, e antlr.RecognitionException) {
	if el.err == "" {
		el.err = fmt.Sprintf("line %d:%d %s", line, column, msg)
	}
}
