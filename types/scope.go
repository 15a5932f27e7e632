package types

// Scope is a binding frame: a mapping from symbol ID to Value, plus an
// optional parent (nil for the global scope). Scopes form an acyclic
// parent chain at construction; a closure pins the scope live at its
// creation (and transitively its ancestors) by holding a handle to it.
type Scope struct {
	vars   map[int]Value
	parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[int]Value), parent: parent}
}

// Get walks the parent chain looking for id, returning (value, true) at
// the nearest frame that binds it, or (nil, false) if unbound anywhere.
func (s *Scope) Get(id int) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[id]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds id unconditionally in this scope (the `let` semantics),
// overwriting any existing local binding and shadowing any binding of the
// same name in an ancestor scope.
func (s *Scope) Define(id int, v Value) {
	s.vars[id] = v
}

// Set implements Python-style assignment (the `set` semantics): it walks the chain starting at s and mutates the
// nearest frame that already binds id; if no frame binds it, id becomes
// bound in s itself.
func (s *Scope) Set(id int, v Value) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[id]; ok {
			cur.vars[id] = v
			return
		}
	}
	s.vars[id] = v
}

func (s *Scope) Parent() *Scope { return s.parent }

// LocalKeys returns the symbol IDs bound directly in this frame (not
// ancestors). Used by ScopeProxyMap.Keys.
func (s *Scope) LocalKeys() []int {
	out := make([]int, 0, len(s.vars))
	for id := range s.vars {
		out = append(out, id)
	}
	return out
}
