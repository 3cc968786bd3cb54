/*
File    : golox/interp/environment.go
*/
package interp

import "github.com/golox-lang/golox/value"

// Environment is a chained name -> Value mapping forming one level of
// lexical scope. A child environment borrows its parent for the
// duration of block execution; it never outlives it and the chain is
// strictly acyclic (child -> parent only).
type Environment struct {
	values map[string]value.Value
	parent *Environment
}

// NewEnvironment creates an empty scope. parent is nil for the global
// environment.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]value.Value), parent: parent}
}

// Define introduces a new binding in this scope, overwriting any
// existing binding of the same name in this scope only (redeclaration
// in the same scope is allowed).
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get looks up name, walking outward through enclosing scopes and
// returning the innermost binding.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return value.Nil, false
}

// Assign rebinds an existing name to v, searching outward from this
// scope. It never creates a new binding; it fails when the name was
// never declared.
func (e *Environment) Assign(name string, v value.Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// Names returns every name visible from this scope, innermost first,
// without duplicates. It backs the "did you mean" suggestion in
// errors.go — production code other than diagnostics should use Get.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.parent {
		for name := range env.values {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
