package redis

import (
	"context"
	"testing"
	"time"

	"clc-quiz-service/internal/domain"
	"clc-quiz-service/internal/infra/memory"
	"clc-quiz-service/internal/wordbank"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{QuestionLoader: wordbank.NewStaticLoader(sampleBank())}
	repo := NewQuestionRepository(client, loader, time.Minute)

	pool, err := repo.Pool(context.Background(), domain.TierElementary)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if loader.calls != 1 || len(pool) != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("wordbank:elementary") {
		t.Fatalf("expected pool cached in redis")
	}
	if ttl := mr.TTL("wordbank:elementary"); ttl < time.Minute {
		t.Fatalf("expected ttl with jitter, got %s", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.Pool(context.Background(), domain.TierElementary)
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached[0].CorrectAnswer != "manzana" || len(cached[0].Options) != 3 {
		t.Fatalf("cached pool lost data: %+v", cached[0])
	}

	if err := repo.Invalidate(context.Background(), domain.TierElementary); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.Pool(context.Background(), domain.TierElementary)
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositoryRevalidatesCachedPool(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: wordbank.NewStaticLoader(sampleBank())}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	// One broken entry next to a good one: only the good one is served.
	mr.Set("wordbank:elementary", `[
		{"word":"pear","correctAnswer":"pera","options":["manzana","uva","kiwi"]},
		{"word":"grape","correctAnswer":"uva","options":["uva","pera","kiwi"]}
	]`)
	pool, err := repo.Pool(context.Background(), domain.TierElementary)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if len(pool) != 1 || pool[0].Word != "grape" {
		t.Fatalf("expected only the valid cached entry, got %+v", pool)
	}
	if loader.calls != 0 {
		t.Fatalf("valid cache entries should not hit the loader, calls=%d", loader.calls)
	}

	// Nothing valid left: treated as a miss and refilled from the loader.
	mr.Set("wordbank:elementary", `[{"word":"pear","correctAnswer":"pera","options":["pera"]}]`)
	pool, err = repo.Pool(context.Background(), domain.TierElementary)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if loader.calls != 1 || len(pool) != 1 || pool[0].Word != "apple" {
		t.Fatalf("expected reload from loader, calls=%d pool=%+v", loader.calls, pool)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadTier(ctx context.Context, tier domain.Tier) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadTier(ctx, tier)
}

func sampleBank() domain.WordBank {
	return domain.WordBank{
		domain.TierElementary: {
			{Word: "apple", CorrectAnswer: "manzana", Options: []string{"manzana", "pera", "uva"}},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
