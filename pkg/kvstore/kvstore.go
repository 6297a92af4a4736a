package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"idops-controlplane/internal/config"
)

// Store is the key-value persistence contract the task collection is saved
// through. Load returns nil (not an error) when the key has never been saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

var Module = fx.Module("kvstore",
	fx.Provide(ProvideStore),
)

type Params struct {
	fx.In
	Config *config.Config
	DB     *gorm.DB      `optional:"true"`
	Redis  *redis.Client `optional:"true"`
}

// ProvideStore selects the persistence backend from config.
func ProvideStore(p Params) (Store, error) {
	switch p.Config.Tasks.Backend {
	case "redis":
		if p.Redis == nil {
			return nil, errors.New("kvstore: redis backend selected but no redis client provided")
		}
		return NewRedisStore(p.Redis), nil
	default:
		if p.DB == nil {
			return nil, errors.New("kvstore: db backend selected but no database provided")
		}
		return NewGormStore(p.DB)
	}
}
