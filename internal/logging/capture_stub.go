//go:build !linux

package logging

import "github.com/rs/zerolog"

// OutputCapture is a no-op on platforms without fd-level redirection.
type OutputCapture struct{}

func NewOutputCapture(logger zerolog.Logger) *OutputCapture { return &OutputCapture{} }

func (c *OutputCapture) Start() error { return nil }

func (c *OutputCapture) Stop() {}
