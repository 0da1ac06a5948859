package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"clc-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a tier's questions from a backing source (YAML bank, Postgres).
type QuestionLoader interface {
	LoadTier(ctx context.Context, tier domain.Tier) ([]domain.Question, error)
}

// QuestionRepository caches tier pools with TTL to avoid repeated loader hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.Tier]cachedPool
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Tier]cachedPool),
	}
}

func (r *QuestionRepository) Pool(ctx context.Context, tier domain.Tier) ([]domain.Question, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnknownTier
	}
	if pool, ok := r.cached(tier); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(string(tier), func() (interface{}, error) {
		if pool, ok := r.cached(tier); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadTier(ctx, tier)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return nil, domain.ErrEmptyPool
		}

		expiresAt := r.clock().Add(r.ttlWithJitter())
		r.mu.Lock()
		r.cache[tier] = cachedPool{
			questions: pool,
			expiresAt: expiresAt,
		}
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(tier domain.Tier) ([]domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[tier]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.questions, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
