// Package trace provides an optional, filterable execution tracer for
// finescript calls: attach one to a ScriptEngine to log callable
// dispatch as scripts run. An unattached engine (Tracer == nil) pays
// nothing for this -- the evaluator only calls the hook when a tracer
// is actually set.
package trace

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Tracer logs calls whose callee name matches Filter (a glob pattern a la
// path.Match; "" or "*" matches everything) and whose call-stack depth is
// <= MaxDepth (0 means unlimited).
type Tracer struct {
	Out      io.Writer
	Filter   string
	MaxDepth int
}

func New(out io.Writer) *Tracer {
	return &Tracer{Out: out, Filter: "*"}
}

// OnCall implements eval.CallTracer.
func (t *Tracer) OnCall(name string, depth int) {
	if t == nil || t.Out == nil {
		return
	}
	if t.MaxDepth > 0 && depth > t.MaxDepth {
		return
	}
	filter := t.Filter
	if filter == "" {
		filter = "*"
	}
	if ok, err := path.Match(filter, name); err != nil || !ok {
		return
	}
	fmt.Fprintf(t.Out, "%s%s\n", strings.Repeat("  ", depth), name)
}
