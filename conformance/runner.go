package conformance

import (
	"fmt"
	"strings"

	"github.com/theosib/FineStructureScript/engine"
)

// Run executes f.Source against a fresh context on e and checks its
// outcome against f.Expect/f.ExpectError, returning a descriptive error
// on mismatch and nil on pass.
func Run(e *engine.ScriptEngine, f Fixture) error {
	ctx := e.NewContext()
	result, err := e.Execute([]byte(f.Source), f.Name, ctx)

	if f.ExpectError != "" {
		if err == nil {
			return fmt.Errorf("%s: expected error containing %q, got none", f.Name, f.ExpectError)
		}
		if !strings.Contains(err.Error(), f.ExpectError) {
			return fmt.Errorf("%s: expected error containing %q, got %q", f.Name, f.ExpectError, err.Error())
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("%s: unexpected error: %v", f.Name, err)
	}
	got := result.Literal()
	if got != f.Expect {
		return fmt.Errorf("%s: expected %q, got %q", f.Name, f.Expect, got)
	}
	return nil
}
