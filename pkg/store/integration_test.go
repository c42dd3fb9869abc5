//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set FARELOCK_TEST_REDIS_URL / FARELOCK_TEST_MONGODB_URL to run against
// live servers, e.g. redis://localhost:6379/15 and
// mongodb://localhost:27017/farelock_test.

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("FARELOCK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FARELOCK_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, url, 100)
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	defer s.Close()
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		t.Fatalf("reset list: %v", err)
	}

	testStore(t, s)
}

func TestRedisStoreCapped_Integration(t *testing.T) {
	url := os.Getenv("FARELOCK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FARELOCK_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, url, 2)
	if err != nil {
		t.Fatalf("NewRedisStore() error: %v", err)
	}
	defer s.Close()
	s.client.Del(ctx, s.key)

	for range 5 {
		r, _ := NewReport("package-locks", "x", nil, 0, 0, nil)
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}
	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List() returned %d reports, want list capped at 2", len(got))
	}
}

func TestMongoStore_Integration(t *testing.T) {
	url := os.Getenv("FARELOCK_TEST_MONGODB_URL")
	if url == "" {
		t.Skip("FARELOCK_TEST_MONGODB_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, url, 100)
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer s.Close()
	if err := s.collection.Drop(ctx); err != nil {
		t.Fatalf("reset collection: %v", err)
	}

	testStore(t, s)
}

func TestMongoStoreCapped_Integration(t *testing.T) {
	url := os.Getenv("FARELOCK_TEST_MONGODB_URL")
	if url == "" {
		t.Skip("FARELOCK_TEST_MONGODB_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, url, 2)
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer s.Close()
	if err := s.collection.Drop(ctx); err != nil {
		t.Fatalf("reset collection: %v", err)
	}

	var ids []string
	for range 5 {
		r, _ := NewReport("package-locks", "x", nil, 0, 0, nil)
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		ids = append(ids, r.ID)
		time.Sleep(2 * time.Millisecond)
	}
	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d reports, want collection capped at 2", len(got))
	}
	if got[0].ID != ids[4] || got[1].ID != ids[3] {
		t.Errorf("List() kept %s, %s; want the two newest %s, %s", got[0].ID, got[1].ID, ids[4], ids[3])
	}
}
