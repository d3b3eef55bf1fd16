package refs

// Ref is one extracted reference: either a value that resolved, or
// the dotted name that did not. The interface is sealed so the walker
// can treat the two cases as a closed variant.
type Ref interface {
	sealedRef()
}

var _ Ref = Resolved{}

// Resolved wraps a concrete runtime value found through the context's
// bindings, an attribute chain, or the module registry.
type Resolved struct {
	Value any
}

func (Resolved) sealedRef() {}

var _ Ref = Symbol("")

// Symbol is an unresolved name. Attribute loads chain onto it with
// dots, so a fully unresolvable access like a.b.c extracts as the
// single symbol "a.b.c".
type Symbol string

func (Symbol) sealedRef() {}

// References is the ordered output of one walk. Order is the order in
// which instructions committed their pending reference; it feeds
// straight into fingerprint folding and is never deduplicated.
type References []Ref
