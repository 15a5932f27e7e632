package types

import "fmt"

// SourceLocation identifies a position in a source file. Every token and
// every AST node carries one.
type SourceLocation struct {
	FileID int
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
