package interstitial

import (
	"sync"
	"testing"
	"time"
)

func TestCounter_FiresEveryN(t *testing.T) {
	c := NewCounter(5)

	var fired []int
	for i := 1; i <= 12; i++ {
		if c.Record() {
			fired = append(fired, i)
		}
	}

	if len(fired) != 2 || fired[0] != 5 || fired[1] != 10 {
		t.Fatalf("expected fires at 5 and 10, got %v", fired)
	}
	if c.pending() != 2 {
		t.Fatalf("expected 2 pending after 12 records, got %d", c.pending())
	}
}

func TestCounter_DefaultThreshold(t *testing.T) {
	c := NewCounter(0)
	for i := 1; i < DefaultEvery; i++ {
		if c.Record() {
			t.Fatalf("fired early at %d", i)
		}
	}
	if !c.Record() {
		t.Fatalf("expected fire at %d", DefaultEvery)
	}
}

func TestCounter_Concurrent(t *testing.T) {
	c := NewCounter(10)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fires int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Record() {
				mu.Lock()
				fires++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if fires != 10 {
		t.Fatalf("expected 10 fires, got %d", fires)
	}
}

func TestSessions_PerUser(t *testing.T) {
	s := NewSessions(2, 0)

	if s.Record("u1") {
		t.Fatalf("u1 fired on first record")
	}
	if s.Record("u2") {
		t.Fatalf("u2 must not share u1's counter")
	}
	if !s.Record("u1") {
		t.Fatalf("u1 should fire on second record")
	}
}

func TestSessions_IdleResets(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessions(2, 30*time.Minute)
	s.now = func() time.Time { return now }

	s.Record("u1")
	now = now.Add(time.Hour)

	if s.Record("u1") {
		t.Fatalf("expected counter reset after idle period")
	}
	if !s.Record("u1") {
		t.Fatalf("expected fire on second record of new session")
	}
}

func TestSessions_SweepsIdleUsers(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessions(5, 30*time.Minute)
	s.now = func() time.Time { return now }

	for _, uid := range []string{"u1", "u2", "u3"} {
		s.Record(uid)
	}
	if s.size() != 3 {
		t.Fatalf("expected 3 sessions, got %d", s.size())
	}

	now = now.Add(20 * time.Minute)
	s.Record("u1")

	// u2 y u3 llevan más de idleTTL sin actividad; u1 no.
	now = now.Add(15 * time.Minute)
	s.Record("u4")

	if s.size() != 2 {
		t.Fatalf("expected idle sessions swept (u1, u4 left), got %d", s.size())
	}
}

func TestSessions_NoTTLKeepsSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewSessions(5, 0)
	s.now = func() time.Time { return now }

	s.Record("u1")
	now = now.Add(24 * time.Hour)
	s.Record("u2")

	if s.size() != 2 {
		t.Fatalf("expected both sessions kept without TTL, got %d", s.size())
	}
}
