package genparse

// Messages holds the user-visible wording of parse diagnostics. Format
// verbs are filled with the expected-token list and the offending token
// text.
type Messages struct {
	Or      string
	AndMore string

	ExpectedGot    string
	ExpectedEOF    string
	Unexpected     string
	UnexpectedList string
	UnexpectedEOF  string
	EmptyElement   string
}

var DefaultMessages = Messages{
	Or:      "or",
	AndMore: "and more",

	ExpectedGot:    "%s expected, got '%s'",
	ExpectedEOF:    "%s expected, unexpected end of file",
	Unexpected:     "'%s' unexpected",
	UnexpectedList: "%s unexpected",
	UnexpectedEOF:  "unexpected end of file",
	EmptyElement:   "empty element parsed in '%s' at offset %d",
}
