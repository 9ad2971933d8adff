// Package view implements the three diagnostic displays: per-channel
// mean/RMS, the 2D sample histogram, and the power spectrum.
//
// A view is a pure consumer of captures. Load recomputes the view's
// derived state wholesale from the given capture and never retains a
// reference to it; Render draws the current derived state and is
// idempotent, safe to call before any Load. Views never talk to the
// transport.
package view

import "github.com/coldbox-daq/wibscope/daq"

// monitorFEMB selects the front-end board shown by all views.
const monitorFEMB = 0

// View is the contract every diagnostic display implements. The
// orchestrator holds a list of Views and fans each capture out to all
// of them.
type View interface {
	// Title is the pane heading.
	Title() string

	// Load recomputes derived state from the capture. On error the
	// previous derived state is kept unchanged.
	Load(c *daq.Capture) error

	// Render draws the current derived state into a width x height
	// cell. With no prior Load it renders a placeholder.
	Render(width, height int) string
}

const placeholder = "(no data - press a to acquire)"
