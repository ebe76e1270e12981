package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func exerciseStore(t *testing.T, store Store, chatID int64) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Load(ctx, chatID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if empty.HasPlan() {
		t.Fatal("Expected no plan for a new chat")
	}

	state := WithPlan(samplePlan(), time.Now().UTC())
	if err := store.Save(ctx, chatID, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, chatID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.RawPlan != state.RawPlan || loaded.SelectedDay != "Monday" || loaded.StoredPlan.Len() != 2 {
		t.Errorf("Unexpected loaded state %+v", loaded)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store, 42)

	t.Run("ChatsAreIsolated", func(t *testing.T) {
		other, _ := store.Load(context.Background(), 7)
		if other.HasPlan() {
			t.Error("Expected chat 7 to have no plan")
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := int64(0); i < 20; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_ = store.Save(context.Background(), id, WithPlan(samplePlan(), time.Now()))
				_, _ = store.Load(context.Background(), id)
			}(i)
		}
		wg.Wait()
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(ctx, mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()
	store := NewRedisStore(client, time.Minute)

	exerciseStore(t, store, 42)

	t.Run("SavesWithTTL", func(t *testing.T) {
		if ttl := mr.TTL(key(42)); ttl != time.Minute {
			t.Errorf("Expected a one minute TTL, got %v", ttl)
		}
	})

	t.Run("ExpiredSessionLoadsEmpty", func(t *testing.T) {
		mr.FastForward(time.Minute)

		state, err := store.Load(ctx, 42)
		if err != nil {
			t.Fatalf("Expected a missing key to load cleanly, got %v", err)
		}
		if state.HasPlan() {
			t.Errorf("Expected no plan after expiry, got %+v", state)
		}
	})

	t.Run("CorruptValue", func(t *testing.T) {
		if err := mr.Set(key(7), "not json"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if _, err := store.Load(ctx, 7); err == nil {
			t.Error("Expected a decode error")
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		mr.SetError("LOADING")
		defer mr.SetError("")

		if _, err := store.Load(ctx, 42); err == nil {
			t.Error("Expected Load to surface the server error")
		}
		if err := store.Save(ctx, 42, WithPlan(samplePlan(), time.Now())); err == nil {
			t.Error("Expected Save to surface the server error")
		}
	})
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisClient(context.Background(), addr, "", 0); err == nil {
		t.Error("Expected an error for an unreachable server")
	}
}
