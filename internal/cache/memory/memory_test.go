package memory

import (
	"context"
	"testing"
	"time"

	"pictiato/internal/cache"
)

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	entry := &cache.Entry{ContentType: "image/jpeg", Data: []byte("bytes")}
	if err := s.Set(ctx, "k", entry, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ContentType != "image/jpeg" || string(got.Data) != "bytes" {
		t.Fatalf("got = %+v", got)
	}

	if err := s.Delete(ctx, "k", "other"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := s.Get(ctx, "k"); got != nil {
		t.Error("entry survived delete")
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewWithNow(func() time.Time { return now })

	if err := s.Set(ctx, "k", &cache.Entry{ContentType: "image/jpeg"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if got, _ := s.Get(ctx, "k"); got == nil {
		t.Fatal("entry should be live before the deadline")
	}

	now = now.Add(2 * time.Minute)
	if got, _ := s.Get(ctx, "k"); got != nil {
		t.Error("entry should have expired")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after expiry", s.Len())
	}
}

func TestMissIsNotAnError(t *testing.T) {
	got, err := New().Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("miss returned entry: %+v", got)
	}
}
