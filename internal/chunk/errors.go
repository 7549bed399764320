package chunk

import "errors"

var (
	// ErrNotAFunction is returned by Build for nodes the classifier rejects.
	ErrNotAFunction = errors.New("not a function declaration")
	// ErrUnresolvableName drops a single declaration whose name cannot be read.
	ErrUnresolvableName = errors.New("unresolvable function name")
	// ErrInvalidEncoding marks a file whose bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("source is not valid UTF-8")
	// ErrSyntax marks a file whose tree contains errors when strict syntax is on.
	ErrSyntax = errors.New("source contains syntax errors")
	// ErrParse marks a file the parser produced no tree for.
	ErrParse = errors.New("parse failed")
)
