package eval

import (
	"github.com/theosib/FineStructureScript/parser"
	"github.com/theosib/FineStructureScript/types"
)

// Closure lives in eval rather than types because it needs *parser.Fn,
// and parser already imports types -- putting Closure in types would
// create an import cycle. It satisfies types.Value structurally; types
// never needs to know this package exists.
type Closure struct {
	Node  *parser.Fn
	Scope *types.Scope
}

func NewClosure(node *parser.Fn, scope *types.Scope) *Closure {
	return &Closure{Node: node, Scope: scope}
}

func (c *Closure) Kind() types.Kind { return types.KindClosure }
func (c *Closure) Truthy() bool     { return true }
func (c *Closure) String() string {
	if c.Node.Name != "" {
		return "<fn:" + c.Node.Name + ">"
	}
	return "<fn>"
}
func (c *Closure) Literal() string { return c.String() }

// Equal is identity comparison: two closures are equal only if they're
// the same allocation.
func (c *Closure) Equal(o types.Value) bool {
	oc, ok := o.(*Closure)
	return ok && c == oc
}
