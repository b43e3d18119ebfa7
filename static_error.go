package abacus

import (
	"fmt"
)

//////////////////////////////////////////////////////////////////////////////
// Location

// Location represents a single location in the expression text.
type Location struct {
	Line   int
	Column int
}

// IsSet returns if this Location has been set.
func (l *Location) IsSet() bool {
	return l.Line != 0
}

func (l *Location) String() string {
	return fmt.Sprintf("%v:%v", l.Line, l.Column)
}

//////////////////////////////////////////////////////////////////////////////
// StaticError

// StaticError represents an error during lexing of an expression.
type StaticError struct {
	Loc Location
	Msg string
}

func makeStaticError(msg string, l Location) StaticError {
	return StaticError{Msg: msg, Loc: l}
}

func (err StaticError) Error() string {
	if err.Loc.IsSet() {
		return fmt.Sprintf("%v %v", err.Loc.String(), err.Msg)
	}
	return err.Msg
}
