package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"clc-quiz-service/internal/domain"
	"clc-quiz-service/internal/wordbank"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a tier's questions from a backing source (YAML bank, Postgres).
type QuestionLoader interface {
	LoadTier(ctx context.Context, tier domain.Tier) ([]domain.Question, error)
}

// QuestionRepository caches each tier pool in Redis and falls back to a loader on miss.
// Pools are stored as JSON: SET wordbank:{tier} [...]
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Pool(ctx context.Context, tier domain.Tier) ([]domain.Question, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnknownTier
	}
	if pool, ok := r.cached(ctx, tier); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(string(tier), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := r.cached(ctx, tier); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadTier(ctx, tier)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return nil, domain.ErrEmptyPool
		}

		if data, err := json.Marshal(pool); err == nil {
			// best-effort fill; a failed write only costs another loader hit
			_ = r.client.Set(ctx, r.key(tier), data, r.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context, tier domain.Tier) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, r.key(tier)).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	// The key can be edited or left over from an older bank; serve only valid entries.
	pool = wordbank.Filter(tier, pool, nil)
	if len(pool) == 0 {
		return nil, false
	}
	return pool, true
}

// Invalidate drops the cached pool so the next read goes to the loader.
func (r *QuestionRepository) Invalidate(ctx context.Context, tier domain.Tier) error {
	return r.client.Del(ctx, r.key(tier)).Err()
}

func (r *QuestionRepository) key(tier domain.Tier) string {
	return "wordbank:" + string(tier)
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
