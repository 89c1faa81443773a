// Package detail loads the movie detail and person profile pages.
package detail

import (
	"errors"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// Phase is the state of a by-id page.
type Phase int

// Page phases.
const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseNotFound
	PhaseFailed
)

// View is the tagged state of a by-id page: exactly one of loading, loaded
// data, not found, or a failure message.
type View[T any] struct {
	phase   Phase
	data    *T
	message string
}

// Loading returns the initial page state.
func Loading[T any]() View[T] {
	return View[T]{phase: PhaseLoading}
}

// Settle maps a load outcome to a page state. core.ErrNotFound and a nil
// result become NotFound; any other error becomes Failed with failMsg.
func Settle[T any](data *T, err error, failMsg string) View[T] {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return View[T]{phase: PhaseNotFound}
	case err != nil:
		return View[T]{phase: PhaseFailed, message: failMsg}
	case data == nil:
		return View[T]{phase: PhaseNotFound}
	}
	return View[T]{phase: PhaseLoaded, data: data}
}

// Phase returns the page phase.
func (v View[T]) Phase() Phase { return v.phase }

// Data returns the loaded record, or nil unless the phase is PhaseLoaded.
func (v View[T]) Data() *T { return v.data }

// Message returns the failure message, or "".
func (v View[T]) Message() string { return v.message }
