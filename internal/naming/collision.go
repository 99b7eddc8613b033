package naming

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutputCollision is returned when two sources derive the same output path.
var ErrOutputCollision = errors.New("output path collision")

// CollisionDetector tracks output paths claimed by source files. The first
// source to claim a path owns it; later claimants get ErrOutputCollision.
// All methods are goroutine-safe.
type CollisionDetector struct {
	mu     sync.Mutex
	owners map[string]string // output path → source path that owns it
}

// NewCollisionDetector creates a ready-to-use detector.
func NewCollisionDetector() *CollisionDetector {
	return &CollisionDetector{owners: make(map[string]string)}
}

// Claim records source as the owner of output. Claiming a path twice for
// the same source is not a collision.
func (cd *CollisionDetector) Claim(source, output string) error {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	owner, exists := cd.owners[output]
	if exists && owner != source {
		return fmt.Errorf("%w: %s already produced by %s", ErrOutputCollision, output, owner)
	}
	cd.owners[output] = source
	return nil
}

// Owner returns the source that claimed output, if any.
func (cd *CollisionDetector) Owner(output string) (string, bool) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	owner, ok := cd.owners[output]
	return owner, ok
}
