// Package view defines the four presentation modes and an exhaustive
// dispatch over them.
package view

import (
	"fmt"
	"slices"
	"strings"
)

// Type is the active presentation mode
type Type string

const (
	List     Type = "list"
	Board    Type = "board"
	Table    Type = "table"
	Document Type = "document"
)

// Initial is the view a new session starts in
const Initial = List

var all = []Type{List, Board, Table, Document}

var labels = map[Type]string{
	List:     "List View",
	Board:    "Board View",
	Table:    "Table View",
	Document: "Document View",
}

// All returns the views in sidebar order
func All() []Type {
	return slices.Clone(all)
}

// Valid reports whether t is one of the four views
func (t Type) Valid() bool {
	return slices.Contains(all, t)
}

// Label returns the header badge text
func (t Type) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

// Short returns the sidebar entry text
func (t Type) Short() string {
	if t == Document {
		return "Docs"
	}
	return strings.TrimSuffix(t.Label(), " View")
}

// Next returns the following view, wrapping around
func (t Type) Next() Type {
	return all[(slices.Index(all, t)+1)%len(all)]
}

// Prev returns the preceding view, wrapping around
func (t Type) Prev() Type {
	i := slices.Index(all, t)
	if i < 0 {
		return all[len(all)-1]
	}
	return all[(i-1+len(all))%len(all)]
}

// UnknownViewError is returned for a value outside the four views
type UnknownViewError struct {
	Value string
}

func (e UnknownViewError) Error() string {
	return fmt.Sprintf("unknown view %q (want one of list, board, table, document)", e.Value)
}

// Parse converts user input into a view
func Parse(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == "docs" {
		t = Document
	}
	if !t.Valid() {
		return "", UnknownViewError{Value: s}
	}
	return t, nil
}

// Renderer has one method per view. Adding a view adds a method, so every
// implementation stops compiling until it handles the new case.
type Renderer[T any] interface {
	List() T
	Board() T
	Table() T
	Document() T
}

// Dispatch calls the Renderer method matching t. Unknown values fall back to
// the list view, which is also the initial state.
func Dispatch[T any](t Type, r Renderer[T]) T {
	switch t {
	case Board:
		return r.Board()
	case Table:
		return r.Table()
	case Document:
		return r.Document()
	default:
		return r.List()
	}
}
