package syntax

import "sync"

// ElementType identifies a token or tree node kind. Element types are
// compared by identity and are expected to be created once, during package
// initialization, with NewElementType.
type ElementType struct {
	name  string
	index int
}

var (
	registryMu sync.RWMutex
	registry   []*ElementType
)

// NewElementType registers a new element type with the given debug name.
// Token types conventionally use their literal text ("+", "(") or an upper
// case name ("IDENTIFIER"); node types use upper snake case ("ADD_EXPR").
func NewElementType(name string) *ElementType {
	registryMu.Lock()
	defer registryMu.Unlock()
	t := &ElementType{name: name, index: len(registry)}
	registry = append(registry, t)
	return t
}

func (t *ElementType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// Index returns the registration index of t. It is stable for the lifetime
// of the process and is what TokenSet uses for membership.
func (t *ElementType) Index() int {
	return t.index
}

// LookupElementType returns the element type registered at index, or nil.
func LookupElementType(index int) *ElementType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if index < 0 || index >= len(registry) {
		return nil
	}
	return registry[index]
}

var (
	WhiteSpace   = NewElementType("WHITE_SPACE")
	Comment      = NewElementType("COMMENT")
	BadCharacter = NewElementType("BAD_CHARACTER")
	ErrorElement = NewElementType("ERROR_ELEMENT")
	// DummyBlock groups tokens skipped by recovery after an error has
	// already been reported for them.
	DummyBlock = NewElementType("DUMMY_BLOCK")
)
