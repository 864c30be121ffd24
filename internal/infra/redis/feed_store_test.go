package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestFeedStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewFeedStore(client, time.Minute)

	feed := store.GetOrCreate(3)
	if got, ok := store.Get(3); !ok || got != feed {
		t.Fatalf("expected the created feed to be tracked")
	}
	if !mr.Exists("survey:feed:3") {
		t.Fatalf("expected redis key to be set")
	}

	mr.FastForward(50 * time.Second)
	if _, ok := store.Get(3); !ok {
		t.Fatalf("expected feed to be tracked")
	}
	if ttl := mr.TTL("survey:feed:3"); ttl != time.Minute {
		t.Fatalf("expected lookup to refresh ttl, got %v", ttl)
	}

	store.DeleteIfEmpty(3)
	if mr.Exists("survey:feed:3") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get(3); ok {
		t.Fatalf("expected feed to be removed")
	}
	_ = client.Close()
}

// setGate blocks every SET until release is closed.
type setGate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *setGate) DialHook(next redis.DialHook) redis.DialHook { return next }

func (g *setGate) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "set" {
			g.once.Do(func() { close(g.entered) })
			<-g.release
		}
		return next(ctx, cmd)
	}
}

func (g *setGate) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestFeedStoreDoesNotHoldLockDuringRedisWrites(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	gate := &setGate{entered: make(chan struct{}), release: make(chan struct{})}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client.AddHook(gate)
	defer client.Close()
	store := NewFeedStore(client, time.Minute)

	created := make(chan struct{})
	go func() {
		store.GetOrCreate(3)
		close(created)
	}()
	select {
	case <-gate.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected GetOrCreate to write the liveness key")
	}

	looked := make(chan bool, 1)
	go func() {
		_, ok := store.Get(4)
		looked <- ok
	}()
	select {
	case ok := <-looked:
		if ok {
			t.Fatalf("expected no feed for survey 4")
		}
	case <-time.After(time.Second):
		close(gate.release)
		t.Fatalf("lookup blocked behind a pending redis write")
	}

	close(gate.release)
	select {
	case <-created:
	case <-time.After(2 * time.Second):
		t.Fatalf("GetOrCreate did not finish")
	}
	if !mr.Exists("survey:feed:3") {
		t.Fatalf("expected redis key to be set")
	}
}
