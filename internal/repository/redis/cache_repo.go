package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jimlawless/whereami"
	"github.com/partsline/storefront/internal/cfg"
	"github.com/partsline/storefront/internal/repository/redis/converter"
	"github.com/partsline/storefront/internal/usecase"
	"github.com/partsline/storefront/pkg/clients"
	"github.com/partsline/storefront/pkg/e"
	"github.com/partsline/storefront/pkg/logger"
)

const (
	// productKeyFormat — ключ кэша товара; версия в ключе, как у корзины,
	// чтобы смена схемы не читала старые записи.
	productKeyFormat = "product:v%d:%d"

	// productCacheVersion — версия схемы кэшируемой записи товара.
	productCacheVersion = 1
)

// productCacheEntry — запись кэша: версия схемы + модель товара.
// Запись с чужой версией считается промахом и удаляется.
type productCacheEntry struct {
	Version int                             `json:"version"`
	Product converter.ProductInfoRedisModel `json:"product"`
}

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductInfoConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает закэшированные товары по ID, игнорируя промахи и
// логируя их. Записи с чужой версией схемы или с ID, не совпадающим с ключом,
// удаляются и считаются промахом.
func (r *CacheRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]usecase.ProductInfo, error) {
	keys := buildProductCacheKeys(ids)

	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warnf("Redis MGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[int64]usecase.ProductInfo, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		model, err := decodeProductCacheEntry(data)
		if err != nil {
			r.logger.Warnf("Stale or corrupt cache entry for %s: %v", keys[i], err)
			r.evictKey(keys[i])
			continue // cache miss
		}

		if model.ID != ids[i] {
			r.logger.Warnf("Cache ID mismatch: key_id: %d, model_id: %d", ids[i], model.ID)
			r.evictKey(keys[i])
			continue // cache miss
		}
		result[ids[i]] = *r.conv.ToUseCase(model)
	}

	return result, nil
}

// SetProducts атомарно кэширует несколько товаров с заданным TTL.
// Игнорирует ошибки сериализации/записи, логируя их.
func (r *CacheRepo) SetProducts(ctx context.Context, products []usecase.ProductInfo) error {
	models := r.conv.ToArrRedisModel(products)

	pipeline := r.client.Client.Pipeline()
	for _, model := range models {
		data, err := encodeProductCacheEntry(model)
		if err != nil {
			r.logger.Warnf("Failed to marshal product for caching (Product ID: %d): %v", model.ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		key := productKey(model.ID)
		pipeline.Set(ctx, key, data, r.cfg.ProductTTL)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		r.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteProducts удаляет товары из кэша по ID
func (r *CacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	keys := buildProductCacheKeys(ids)

	if err := r.client.Client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// evictKey удаляет испорченную запись кэша; ошибка удаления только логируется.
func (r *CacheRepo) evictKey(key string) {
	if err := r.client.Client.Del(context.Background(), key).Err(); err != nil {
		r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// encodeProductCacheEntry сериализует модель товара в версионированную запись кэша
func encodeProductCacheEntry(model converter.ProductInfoRedisModel) ([]byte, error) {
	return json.Marshal(productCacheEntry{
		Version: productCacheVersion,
		Product: model,
	})
}

// decodeProductCacheEntry разбирает запись кэша, отклоняя чужую версию схемы
func decodeProductCacheEntry(data []byte) (*converter.ProductInfoRedisModel, error) {
	var entry productCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}

	if entry.Version != productCacheVersion {
		return nil, fmt.Errorf("cache entry version %d, want %d", entry.Version, productCacheVersion)
	}

	return &entry.Product, nil
}

// buildProductCacheKeys формирует Redis-ключи из ID товаров
func buildProductCacheKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	return keys
}

// productKey возвращает Redis-ключ для одного товара
func productKey(id int64) string {
	return fmt.Sprintf(productKeyFormat, productCacheVersion, id)
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
