package types

import (
	"strconv"
	"strings"
)

// StringData is a shared, mutable byte-string handle. All operations are
// byte-oriented, not unicode-aware, per spec.
type StringData struct {
	B []byte
}

func NewString(s string) Value {
	return &StringData{B: []byte(s)}
}

func NewStringBytes(b []byte) Value {
	return &StringData{B: b}
}

func (s *StringData) Kind() Kind   { return KindString }
func (s *StringData) Truthy() bool { return true }
func (s *StringData) String() string {
	return string(s.B)
}

// Literal renders a Go-quoted form (the conformance runner compares
// results in this form).
func (s *StringData) Literal() string {
	return strconv.Quote(string(s.B))
}

func (s *StringData) Equal(o Value) bool {
	os, ok := o.(*StringData)
	if !ok {
		return false
	}
	return string(s.B) == string(os.B)
}

func (s *StringData) Len() int { return len(s.B) }

// ByteAt returns the single-byte string at index i, supporting negative
// indices counted from the end. ok is false if i is out of range.
func (s *StringData) ByteAt(i int) (string, bool) {
	i = normalizeIndex(i, len(s.B))
	if i < 0 || i >= len(s.B) {
		return "", false
	}
	return string(s.B[i : i+1]), true
}

func (s *StringData) SetByteAt(i int, b byte) bool {
	i = normalizeIndex(i, len(s.B))
	if i < 0 || i >= len(s.B) {
		return false
	}
	s.B[i] = b
	return true
}

func (s *StringData) Push(other string) {
	s.B = append(s.B, other...)
}

func (s *StringData) InsertAt(i int, ins string) bool {
	i = normalizeIndex(i, len(s.B))
	if i < 0 || i > len(s.B) {
		return false
	}
	buf := make([]byte, 0, len(s.B)+len(ins))
	buf = append(buf, s.B[:i]...)
	buf = append(buf, ins...)
	buf = append(buf, s.B[i:]...)
	s.B = buf
	return true
}

func (s *StringData) DeleteAt(i, n int) bool {
	i = normalizeIndex(i, len(s.B))
	if i < 0 || i > len(s.B) {
		return false
	}
	end := i + n
	if end > len(s.B) {
		end = len(s.B)
	}
	s.B = append(s.B[:i], s.B[end:]...)
	return true
}

// Replace replaces all non-overlapping occurrences of old with new. An
// empty old is a no-op (returns the string unchanged), per spec.
func (s *StringData) Replace(old, new string) {
	if old == "" {
		return
	}
	s.B = []byte(strings.ReplaceAll(string(s.B), old, new))
}

func (s *StringData) Find(needle string, start int) int {
	if start < 0 {
		start = 0
	}
	if start > len(s.B) {
		return -1
	}
	idx := strings.Index(string(s.B[start:]), needle)
	if idx < 0 {
		return -1
	}
	return idx + start
}

func (s *StringData) Contains(needle string) bool {
	return strings.Contains(string(s.B), needle)
}

// Substr returns n bytes starting at byte offset start (clamped).
func (s *StringData) Substr(start, n int) string {
	start = normalizeIndex(start, len(s.B))
	if start < 0 {
		start = 0
	}
	if start > len(s.B) {
		start = len(s.B)
	}
	end := start + n
	if end > len(s.B) {
		end = len(s.B)
	}
	if end < start {
		end = start
	}
	return string(s.B[start:end])
}

// Slice returns the byte range [start,end), bounds clamped to 0..length;
// if start>end after clamping, the result is an empty string.
func (s *StringData) Slice(start, end int) string {
	start = clampIndex(start, len(s.B))
	end = clampIndex(end, len(s.B))
	if start > end {
		return ""
	}
	return string(s.B[start:end])
}

func (s *StringData) Split(delim string) []string {
	if delim == "" {
		parts := make([]string, len(s.B))
		for i, b := range s.B {
			parts[i] = string(b)
		}
		return parts
	}
	return strings.Split(string(s.B), delim)
}

func (s *StringData) Upper() string { return strings.ToUpper(string(s.B)) }
func (s *StringData) Lower() string { return strings.ToLower(string(s.B)) }
func (s *StringData) Trim() string  { return strings.Trim(string(s.B), " \t\r\n") }

func (s *StringData) StartsWith(prefix string) bool { return strings.HasPrefix(string(s.B), prefix) }
func (s *StringData) EndsWith(suffix string) bool   { return strings.HasSuffix(string(s.B), suffix) }

// normalizeIndex resolves a negative index to count from the end; it does
// not clamp to range (callers check bounds themselves).
func normalizeIndex(i, length int) int {
	if i < 0 {
		return length + i
	}
	return i
}

// clampIndex resolves a negative index and clamps the result into [0,length].
func clampIndex(i, length int) int {
	i = normalizeIndex(i, length)
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
