package tui

import "github.com/hylla/flytta/internal/board"

type Option func(*Model)

func WithGates(gates board.Options) Option {
	return func(m *Model) {
		m.gates = gates
	}
}

func WithShowWIPWarnings(show bool) Option {
	return func(m *Model) {
		m.showWIPWarnings = show
	}
}

// WithKeyOverrides rebinds the grab, drop, and cancel gestures. Blank
// overrides keep the defaults.
func WithKeyOverrides(grab, drop, cancel string) Option {
	return func(m *Model) {
		m.keys.grabCard = rebind(m.keys.grabCard, grab)
		m.keys.drop = rebind(m.keys.drop, drop)
		m.keys.cancel = rebind(m.keys.cancel, cancel)
	}
}
