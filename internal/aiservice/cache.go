package aiservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// CachingExtractor remembers successful extractions keyed by the SHA-256 of
// the image bytes, so rescanning the same photo does not call the model again.
// Failures are never cached.
type CachingExtractor struct {
	next  Extractor
	cache *expirable.LRU[string, NutritionFacts]
}

// NewCachingExtractor wraps next. A size <= 0 returns next unchanged.
func NewCachingExtractor(next Extractor, size int, ttl time.Duration) Extractor {
	if size <= 0 || next == nil {
		return next
	}
	return &CachingExtractor{
		next:  next,
		cache: expirable.NewLRU[string, NutritionFacts](size, nil, ttl),
	}
}

func (c *CachingExtractor) Extract(ctx context.Context, img Image) (*NutritionFacts, error) {
	key := imageDigest(img.Data)
	if facts, ok := c.cache.Get(key); ok {
		zerolog.Ctx(ctx).Debug().Str("image_sha256", key).Msg("Nutrition scan served from cache")
		return &facts, nil
	}

	facts, err := c.next.Extract(ctx, img)
	if err != nil {
		return nil, err
	}
	if facts != nil {
		c.cache.Add(key, *facts)
	}
	return facts, nil
}

// Len reports the number of cached scans.
func (c *CachingExtractor) Len() int {
	return c.cache.Len()
}

func imageDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
