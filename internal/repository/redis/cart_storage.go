package redis

import (
	"context"
	"errors"

	r "github.com/redis/go-redis/v9"

	"github.com/jimlawless/whereami"
	"github.com/partsline/storefront/internal/cfg"
	"github.com/partsline/storefront/pkg/clients"
	"github.com/partsline/storefront/pkg/e"
)

// CartStorage хранит сериализованные корзины в Redis с TTL.
// Отсутствие ключа — штатный промах, не ошибка.
type CartStorage struct {
	client *clients.RedisClient
	cfg    *cfg.CartCfg
}

func NewCartStorage(client *clients.RedisClient, cfg *cfg.CartCfg) *CartStorage {
	return &CartStorage{
		client: client,
		cfg:    cfg,
	}
}

func (s *CartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Client.Get(ctx, key).Result()
	if errors.Is(err, r.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, true, nil
}

func (s *CartStorage) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Client.Set(ctx, key, value, s.cfg.TTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *CartStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Client.Del(ctx, key).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
