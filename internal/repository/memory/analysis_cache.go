package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"kidvibe-be/pkg/ai"

	"github.com/patrickmn/go-cache"
)

// AnalysisCache memoizes requirement-analysis results per description so
// repeated analyze calls with the same text skip the provider round trip.
type AnalysisCache struct {
	cache *cache.Cache
}

func NewAnalysisCache() *AnalysisCache {
	// Default expiration of 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &AnalysisCache{
		cache: c,
	}
}

func key(description string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}

func (a *AnalysisCache) Get(description string) (*ai.RequirementAnalysis, bool) {
	if x, found := a.cache.Get(key(description)); found {
		return x.(*ai.RequirementAnalysis), true
	}
	return nil, false
}

func (a *AnalysisCache) Set(description string, analysis *ai.RequirementAnalysis) {
	a.cache.Set(key(description), analysis, cache.DefaultExpiration)
}
