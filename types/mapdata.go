package types

// ProxyMap is implemented by host objects (or, via ScopeProxyMap, by a
// Scope) that want to be addressed as if they were a finescript Map. Keys
// are always Symbol values.
type ProxyMap interface {
	Get(key Value) (Value, bool)
	Set(key, val Value) bool
	Has(key Value) bool
	// Remove may be unsupported by a proxy; it then returns false.
	Remove(key Value) bool
	Keys() []Value
}

// MapData is a map, either a local map (owns a Symbol->Value mapping) or
// a proxy map that delegates to a host-supplied ProxyMap (e.g. a scope
// exposed through ScopeProxyMap). Either shape additionally carries a
// local method-flag set: keys whose stored value should receive the
// receiver as an implicit first argument when invoked through dot-call.
// The method flag belongs to the map entry, not the value.
type MapData struct {
	proxy       ProxyMap
	local       map[int]Value
	methodFlags map[int]bool
	interner    *Interner
}

func NewMapData(in *Interner) *MapData {
	return &MapData{local: make(map[int]Value), methodFlags: make(map[int]bool), interner: in}
}

func NewProxyMapData(p ProxyMap) *MapData {
	return &MapData{proxy: p}
}

func (m *MapData) Kind() Kind     { return KindMap }
func (m *MapData) Truthy() bool   { return true }
func (m *MapData) String() string { return "<map>" }

func (m *MapData) Literal() string {
	if m.proxy != nil {
		return "<map>"
	}
	out := "["
	first := true
	for _, k := range m.Keys() {
		if !first {
			out += " "
		}
		first = false
		v, _ := m.Get(k)
		out += "=" + k.String()[1:] + " " + v.Literal()
	}
	return out + "]"
}

// Equal is identity comparison: two maps are equal only if they are the
// same underlying handle.
func (m *MapData) Equal(o Value) bool {
	om, ok := o.(*MapData)
	return ok && m == om
}

func (m *MapData) IsProxy() bool { return m.proxy != nil }

func (m *MapData) Get(key Value) (Value, bool) {
	if m.proxy != nil {
		return m.proxy.Get(key)
	}
	sym, ok := key.(SymbolValue)
	if !ok {
		return Nil, false
	}
	v, ok := m.local[sym.ID]
	if !ok {
		return Nil, false
	}
	return v, true
}

// GetOrNil is the Map index/get semantics: missing keys yield Nil, never
// an error.
func (m *MapData) GetOrNil(key Value) Value {
	if v, ok := m.Get(key); ok {
		return v
	}
	return Nil
}

func (m *MapData) Has(key Value) bool {
	if m.proxy != nil {
		return m.proxy.Has(key)
	}
	sym, ok := key.(SymbolValue)
	if !ok {
		return false
	}
	_, ok = m.local[sym.ID]
	return ok
}

// Set stores val at key and leaves the key's method flag untouched. The
// auto-method rule is evaluated by the caller (the evaluator), which sets
// or clears the flag with SetMethodFlag after each store.
func (m *MapData) Set(key, val Value) bool {
	if m.proxy != nil {
		return m.proxy.Set(key, val)
	}
	sym, ok := key.(SymbolValue)
	if !ok {
		return false
	}
	m.local[sym.ID] = val
	return true
}

func (m *MapData) SetMethodFlag(key Value, isMethod bool) {
	if m.proxy != nil {
		return
	}
	sym, ok := key.(SymbolValue)
	if !ok {
		return
	}
	if isMethod {
		m.methodFlags[sym.ID] = true
	} else {
		delete(m.methodFlags, sym.ID)
	}
}

func (m *MapData) IsMethod(key Value) bool {
	if m.proxy != nil {
		return false
	}
	sym, ok := key.(SymbolValue)
	if !ok {
		return false
	}
	return m.methodFlags[sym.ID]
}

// Remove deletes key, clearing its method flag too. For a proxy map,
// removal may be unsupported (returns false).
func (m *MapData) Remove(key Value) bool {
	if m.proxy != nil {
		return m.proxy.Remove(key)
	}
	sym, ok := key.(SymbolValue)
	if !ok {
		return false
	}
	if _, ok := m.local[sym.ID]; !ok {
		return false
	}
	delete(m.local, sym.ID)
	delete(m.methodFlags, sym.ID)
	return true
}

func (m *MapData) Keys() []Value {
	if m.proxy != nil {
		return m.proxy.Keys()
	}
	out := make([]Value, 0, len(m.local))
	for id := range m.local {
		out = append(out, SymbolValue{ID: id, Interner: m.interner})
	}
	return out
}

func (m *MapData) Len() int {
	if m.proxy != nil {
		return len(m.proxy.Keys())
	}
	return len(m.local)
}
