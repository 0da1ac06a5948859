package redis

import (
	"context"
	"testing"
	"time"

	"clc-quiz-service/internal/app"
	"clc-quiz-service/internal/infra/memory"
	"clc-quiz-service/internal/wordbank"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestGameStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewGameStore(newClient(mr), time.Minute)
	game := app.NewGame("game-1", nil, app.GameDeps{
		Profiles:  memory.NewProfileStore(),
		Questions: memory.NewQuestionRepository(wordbank.NewStaticLoader(sampleBank()), time.Minute),
	})
	defer game.Close()

	store.Save(game)
	if !mr.Exists("clc:game:game-1") {
		t.Fatalf("expected redis key to be set")
	}
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected game in local map")
	}

	store.Delete("game-1")
	if mr.Exists("clc:game:game-1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestGameStoreRefreshRearmsMarkers(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewGameStore(newClient(mr), time.Minute)
	game := app.NewGame("game-2", nil, app.GameDeps{
		Profiles:  memory.NewProfileStore(),
		Questions: memory.NewQuestionRepository(wordbank.NewStaticLoader(sampleBank()), time.Minute),
	})
	defer game.Close()
	store.Save(game)

	mr.FastForward(2 * time.Minute)
	if mr.Exists("clc:game:game-2") {
		t.Fatalf("expected marker to expire without refresh")
	}

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !mr.Exists("clc:game:game-2") {
		t.Fatalf("expected marker recreated for a live game")
	}
	if ttl := mr.TTL("clc:game:game-2"); ttl != time.Minute {
		t.Fatalf("expected full ttl after refresh, got %s", ttl)
	}

	store.Delete("game-2")
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if mr.Exists("clc:game:game-2") {
		t.Fatalf("closed games must not be re-armed")
	}
}

func TestGameStoreKeepAliveStopsWithContext(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewGameStore(newClient(mr), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.KeepAlive(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("keep alive did not stop")
	}
}
