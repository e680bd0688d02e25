package redis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsline/storefront/internal/repository/redis/converter"
)

func TestProductCacheEntryRoundTrip(t *testing.T) {
	model := converter.ProductInfoRedisModel{
		ID:           7,
		Title:        "Brake Pad Set",
		CategoryName: "Brakes",
		Price:        1999,
		Description:  "Ceramic front pads",
		ImageKeys:    []string{"brakes/abc.jpg"},
		RatingRate:   4.5,
		RatingCount:  12,
		Specs:        map[string]string{"position": "front"},
	}

	data, err := encodeProductCacheEntry(model)
	require.NoError(t, err)

	got, err := decodeProductCacheEntry(data)
	require.NoError(t, err)
	assert.Equal(t, model, *got)
}

func TestDecodeProductCacheEntryRejectsForeignVersion(t *testing.T) {
	data, err := json.Marshal(productCacheEntry{
		Version: productCacheVersion + 1,
		Product: converter.ProductInfoRedisModel{ID: 1},
	})
	require.NoError(t, err)

	_, err = decodeProductCacheEntry(data)
	assert.Error(t, err)
}

func TestDecodeProductCacheEntryRejectsCorrupt(t *testing.T) {
	_, err := decodeProductCacheEntry([]byte("{broken"))
	assert.Error(t, err)
}

func TestProductKeyCarriesSchemaVersion(t *testing.T) {
	assert.Equal(t, "product:v1:42", productKey(42))
	assert.Equal(t, []string{"product:v1:1", "product:v1:2"}, buildProductCacheKeys([]int64{1, 2}))
}

func TestRedisValueToBytes(t *testing.T) {
	data, err := redisValueToBytes("payload", "product:v1:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	data, err = redisValueToBytes(nil, "product:v1:1")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = redisValueToBytes(42, "product:v1:1")
	assert.Error(t, err)
}
