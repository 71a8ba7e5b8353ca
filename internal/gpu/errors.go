package gpu

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfDate is returned by acquire and present once the surface has
	// changed so much that the swapchain can no longer be used.
	ErrOutOfDate = errors.New("swapchain out of date")
	// ErrSuboptimal is returned when the swapchain still works but no longer
	// matches the surface exactly.
	ErrSuboptimal = errors.New("swapchain suboptimal")
)

// IsStale reports whether err asks for the swapchain to be rebuilt.
func IsStale(err error) bool {
	return errors.Is(err, ErrOutOfDate) || errors.Is(err, ErrSuboptimal)
}
