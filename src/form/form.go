// Package form implements the search and new-transaction forms that drive the
// transactions store.
package form

import (
	"dtmoney-server/src/util"
	"errors"
	"sync"
)

// ErrSubmitting is returned when a submit arrives while another one is pending.
var ErrSubmitting = errors.New("form is already submitting")

type ValidationError = util.ValidationError

// submitGate is the disabled state of a form's submit control. Every change of
// that state is a render of the form.
type submitGate struct {
	mu         sync.Mutex
	submitting bool
	renders    int
	onRender   func(submitting bool)
}

func (g *submitGate) begin() bool {
	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return false
	}
	g.submitting = true
	g.mu.Unlock()
	g.render()
	return true
}

func (g *submitGate) end() {
	g.mu.Lock()
	g.submitting = false
	g.mu.Unlock()
	g.render()
}

func (g *submitGate) render() {
	g.mu.Lock()
	g.renders++
	submitting := g.submitting
	onRender := g.onRender
	g.mu.Unlock()
	if onRender != nil {
		onRender(submitting)
	}
}

// IsSubmitting reports whether the submit control is disabled.
func (g *submitGate) IsSubmitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitting
}

// Renders counts how many times the form recomputed its output.
func (g *submitGate) Renders() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renders
}

// OnRender registers fn to receive the submit control state after each render.
func (g *submitGate) OnRender(fn func(submitting bool)) {
	g.mu.Lock()
	g.onRender = fn
	g.mu.Unlock()
}
