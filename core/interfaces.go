// Package core provides shared interfaces for Lucy node components.
package core

// ParameterSource is the interface through which a node reads its input
// values from the hosting graph. Values are untyped at this boundary; the
// artifact package normalizes media-shaped values into tagged variants.
//
// This interface enables dependency injection and testing of node executions
// without a running graph host.
type ParameterSource interface {
	// GetInput returns the value of the named input parameter.
	// The second return value is false when the parameter is unset.
	GetInput(name string) (any, bool)
}

// ParameterSink is the interface through which a node publishes its output
// value back to the hosting graph. A node publishes exactly one output per
// successful execution and nothing on failure.
type ParameterSink interface {
	// SetOutput publishes a value to the named output parameter.
	SetOutput(name string, value any)
}

// ParameterMap is an in-memory ParameterSource and ParameterSink, used by
// the CLI host glue and by tests.
type ParameterMap map[string]any

// GetInput returns the mapped value for name.
func (m ParameterMap) GetInput(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// SetOutput stores a value under name.
func (m ParameterMap) SetOutput(name string, value any) {
	m[name] = value
}

var (
	_ ParameterSource = ParameterMap(nil)
	_ ParameterSink   = ParameterMap(nil)
)
