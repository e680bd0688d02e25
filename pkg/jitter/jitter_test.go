package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationWithinBounds(t *testing.T) {
	base := time.Second

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDurationZeroJitterFactor(t *testing.T) {
	assert.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestDurationWithSeedDeterministic(t *testing.T) {
	first := DurationWithSeed(time.Second, DefaultJitter, rand.New(rand.NewSource(42)))
	second := DurationWithSeed(time.Second, DefaultJitter, rand.New(rand.NewSource(42)))

	assert.Equal(t, first, second)
}

func TestExponentialBackoffGrowsAndCaps(t *testing.T) {
	const (
		base = time.Second
		max  = 8 * time.Second
	)

	for attempt := 0; attempt < 10; attempt++ {
		d := ExponentialBackoff(base, max, attempt, 0)

		want := base
		for i := 0; i < attempt; i++ {
			want *= 2
			if want > max {
				want = max
				break
			}
		}
		assert.Equal(t, want, d, "attempt %d", attempt)
	}
}

func TestExponentialBackoffWithJitterStaysUnderCapPlusJitter(t *testing.T) {
	const (
		base = time.Second
		max  = 4 * time.Second
	)

	for i := 0; i < 100; i++ {
		d := ExponentialBackoff(base, max, 20, DefaultJitter)
		assert.GreaterOrEqual(t, d, max)
		assert.LessOrEqual(t, d, max+max/2)
	}
}
