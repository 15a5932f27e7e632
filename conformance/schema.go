// Package conformance drives YAML-described finescript snippets through
// a real engine and checks their result or error, mirroring the
// teacher's fixture-file conformance harness.
package conformance

// Fixture is one test case: Source is evaluated as a program, and
// exactly one of Expect / ExpectError should be set. Expect is compared
// against the program's result rendered with Value.Literal(); ExpectError
// is matched as a substring of the resulting error's message.
type Fixture struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Expect      string `yaml:"expect,omitempty"`
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Suite is the top-level shape of one fixture YAML file.
type Suite struct {
	Fixtures []Fixture `yaml:"fixtures"`
}
