package render

import "github.com/cockroachdb/errors"

var (
	ErrNoSuitableDevice          = errors.New("no suitable physical device")
	ErrNoAcceptableSurfaceFormat = errors.New("no acceptable surface format")
	ErrUnsupportedExtent         = errors.New("surface leaves the swapchain extent to the application")
	ErrMissingInstanceExtension  = errors.New("required instance extension not installed")
	// ErrZeroExtent means the surface currently has no area, usually because
	// the window is minimized. The chain cannot be built until it grows.
	ErrZeroExtent = errors.New("surface extent is zero")
)
