package localstore

import (
	"strconv"
	"sync"
	"time"
)

// idAllocator hands out wall-clock-millisecond ids, bumping by one when two
// allocations land on the same millisecond so ids stay unique and monotonic.
type idAllocator struct {
	mu   sync.Mutex
	last int64
}

func (a *idAllocator) Next() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= a.last {
		now = a.last + 1
	}
	a.last = now
	return strconv.FormatInt(now, 10)
}
