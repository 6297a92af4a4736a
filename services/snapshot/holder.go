package snapshot

import (
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("snapshot",
	fx.Provide(NewHolder),
)

// Holder keeps the most recently pushed environment snapshot. The collector
// that talks to the directory API lives outside this service and replaces the
// snapshot wholesale; readers always see the last complete push.
type Holder struct {
	mu        sync.RWMutex
	current   Snapshot
	updatedAt time.Time
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) Set(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = s
	h.updatedAt = time.Now()

	zap.L().Info("snapshot updated",
		zap.Int("users_total", s.Users.Total),
		zap.Int("risky_users", s.Security.RiskyUsers),
	)
}

func (h *Holder) Get() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *Holder) UpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.updatedAt
}
