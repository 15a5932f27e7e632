package eval

import (
	"testing"

	"github.com/theosib/FineStructureScript/types"
)

func TestArrayBuiltinMethods(t *testing.T) {
	got := runSrc(t, `
let a [1 2 3]
a.push 4
a.length
`)
	if !got.Equal(types.NewInt(4)) {
		t.Errorf("a.length after push = %v, want 4", got)
	}
}

func TestArrayMapFilterUseScriptClosures(t *testing.T) {
	got := runSrc(t, `
let a [1 2 3 4]
let evens do a.filter (fn [x] ((x % 2) == 0)) end
evens.length
`)
	if !got.Equal(types.NewInt(2)) {
		t.Errorf("filter result length = %v, want 2", got)
	}
}

func TestArraySortByUsesScriptComparator(t *testing.T) {
	got := runSrc(t, `
let a [3 1 2]
a.sort_by (fn [x y] (x < y))
a[0]
`)
	if !got.Equal(types.NewInt(1)) {
		t.Errorf("a[0] after sort_by = %v, want 1", got)
	}
}

func TestStringBuiltinMethods(t *testing.T) {
	got := runSrc(t, `
let s "Hello"
s.lower
`)
	if !got.Equal(types.NewString("hello")) {
		t.Errorf("s.lower = %v, want %q", got, "hello")
	}
}

func TestStringFindAndContains(t *testing.T) {
	got := runSrc(t, `"hello world".find "world"`)
	if !got.Equal(types.NewInt(6)) {
		t.Errorf("find = %v, want 6", got)
	}
	got = runSrc(t, `"hello world".contains "world"`)
	if !got.Equal(types.NewBool(true)) {
		t.Errorf("contains = %v, want true", got)
	}
}

func TestMapBuiltinMethods(t *testing.T) {
	got := runSrc(t, `
let m { =a 1 }
m.set :b 2
m.has :b
`)
	if !got.Equal(types.NewBool(true)) {
		t.Errorf("m.has :b = %v, want true", got)
	}
}

func TestMapKeysAndValues(t *testing.T) {
	got := runSrc(t, `
let m { =a 1 =b 2 }
let ks do m.keys end
ks.length
`)
	if !got.Equal(types.NewInt(2)) {
		t.Errorf("keys length = %v, want 2", got)
	}
	got = runSrc(t, `
let m { =a 1 =b 2 }
let vs do m.values end
vs.length
`)
	if !got.Equal(types.NewInt(2)) {
		t.Errorf("values length = %v, want 2", got)
	}
}
