package eval

import (
	"testing"

	"github.com/theosib/FineStructureScript/types"
)

func TestOperatorStringFormatSubstitutesPositionalArgs(t *testing.T) {
	got := runSrc(t, `("%s is %d years old" % ["Ada" 36])`)
	want := "Ada is 36 years old"
	if !got.Equal(types.NewString(want)) {
		t.Errorf("got %v, want %q", got, want)
	}
}

func TestOperatorStringFormatAcceptsSingleArgument(t *testing.T) {
	got := runSrc(t, `("%05d" % 42)`)
	if !got.Equal(types.NewString("00042")) {
		t.Errorf("got %v, want %q", got, "00042")
	}
}

func TestOperatorStringFormatLiteralPercent(t *testing.T) {
	got := runSrc(t, `("100%%" % [])`)
	if !got.Equal(types.NewString("100%")) {
		t.Errorf("got %v, want %q", got, "100%")
	}
}

func TestOperatorModuloOnIntsIsRemainder(t *testing.T) {
	got := runSrc(t, "(7 % 3)")
	if !got.Equal(types.NewInt(1)) {
		t.Errorf("got %v, want 1", got)
	}
}

func TestOperatorModuloByZeroErrors(t *testing.T) {
	if err := runSrcErr(t, "(7 % 0)"); err == nil {
		t.Error("expected a division-by-zero error")
	}
}

func TestOperatorStringComparison(t *testing.T) {
	if !runSrc(t, `("abc" < "abd")`).Equal(types.NewBool(true)) {
		t.Error(`expected "abc" < "abd" to be true`)
	}
}

func TestOperatorAndOrShortCircuit(t *testing.T) {
	got := runSrc(t, `
let calls []
fn record [tag v] { set calls (calls + [tag]) v }
((do record "left" false end) and (do record "right" true end))
calls.length
`)
	if !got.Equal(types.NewInt(1)) {
		t.Errorf("right side of 'and' was evaluated even though left was false: calls.length = %v, want 1", got)
	}
}

func TestOperatorNilCoalescing(t *testing.T) {
	got := runSrc(t, `(nil ?? "fallback")`)
	if !got.Equal(types.NewString("fallback")) {
		t.Errorf("got %v, want %q", got, "fallback")
	}
}

func TestOperatorArrayConcatenation(t *testing.T) {
	got := runSrc(t, `([1 2] + [3 4]).length`)
	if !got.Equal(types.NewInt(4)) {
		t.Errorf("got %v, want 4", got)
	}
}

func TestOperatorInclusiveRangeIncludesUpperBound(t *testing.T) {
	got := runSrc(t, `(1..=3).length`)
	if !got.Equal(types.NewInt(3)) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestOperatorExclusiveRangeExcludesUpperBound(t *testing.T) {
	got := runSrc(t, `(1..3).length`)
	if !got.Equal(types.NewInt(2)) {
		t.Errorf("got %v, want 2", got)
	}
}
