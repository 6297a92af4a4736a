package task

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("task.store",
	fx.Provide(
		NewStore,
	),
	fx.Invoke(HydrateOnStart),
)

// HydrateOnStart loads the persisted collection before the server accepts
// requests.
func HydrateOnStart(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Hydrate(ctx)
		},
	})
}
