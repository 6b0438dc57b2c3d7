package clock

import (
	"context"
	"time"
)

// SystemClock returns wall time in UTC. All timestamps in the store are UTC;
// conversion for display is a caller concern.
type SystemClock struct{}

func (SystemClock) Now(context.Context) time.Time {
	return time.Now().UTC()
}

func New() Clock { return SystemClock{} }
