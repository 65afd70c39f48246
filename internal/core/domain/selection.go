package domain

// Selection is a caret position or range in a document, counted in nodes.
type Selection struct {
	Index  int
	Length int
}

// Caret returns a collapsed selection at index.
func Caret(index int) Selection {
	return Selection{Index: index}
}
