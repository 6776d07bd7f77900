// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (pane chrome, stacks, popup overlay compositor)
//
// Not allowed here:
// - key handling, state transitions, or focus policy
package widgets

// Widget renders itself into exactly width columns and at most height rows.
type Widget interface {
	Render(width, height int) string
}

// Func adapts a function to Widget.
type Func func(width, height int) string

func (f Func) Render(width, height int) string { return f(width, height) }
