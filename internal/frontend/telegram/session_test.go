package telegram

import (
	"sync"
	"testing"

	"github.com/vadimtrunov/MovieExplore/internal/fixture"
)

func testSessions(allowed []int64) *sessionManager {
	return newSessionManager(allowed, fixture.NewStore(fixture.Seed()), discardLogger)
}

func TestSessionManager_IsAllowed(t *testing.T) {
	t.Run("empty whitelist allows all", func(t *testing.T) {
		sm := testSessions(nil)
		if !sm.isAllowed(123) {
			t.Error("expected all users allowed with nil whitelist")
		}
		if !sm.isAllowed(456) {
			t.Error("expected all users allowed with nil whitelist")
		}
	})

	t.Run("empty slice allows all", func(t *testing.T) {
		sm := testSessions([]int64{})
		if !sm.isAllowed(123) {
			t.Error("expected all users allowed with empty whitelist")
		}
	})

	t.Run("whitelist restricts", func(t *testing.T) {
		sm := testSessions([]int64{100, 200})
		if !sm.isAllowed(100) {
			t.Error("expected user 100 allowed")
		}
		if !sm.isAllowed(200) {
			t.Error("expected user 200 allowed")
		}
		if sm.isAllowed(300) {
			t.Error("expected user 300 denied")
		}
	})
}

func TestSessionManager_GetOrCreate(t *testing.T) {
	sm := testSessions(nil)

	s1 := sm.getOrCreate(100)
	if s1 == nil || s1.ctrl == nil {
		t.Fatal("expected session with controller")
	}

	if s2 := sm.getOrCreate(100); s1 != s2 {
		t.Error("expected same session for same user")
	}

	if s3 := sm.getOrCreate(200); s1 == s3 {
		t.Error("expected different sessions for different users")
	}
}

func TestSessionManager_Reset(t *testing.T) {
	sm := testSessions(nil)

	s1 := sm.getOrCreate(100)
	sm.reset(100)
	s2 := sm.getOrCreate(100)

	if s1 == s2 {
		t.Error("expected new session after reset")
	}
}

func TestSessionManager_Concurrent(t *testing.T) {
	sm := testSessions(nil)

	var wg sync.WaitGroup
	seen := make([]*session, 100)
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen[i] = sm.getOrCreate(int64(i % 10))
		}()
	}
	wg.Wait()

	for i := range 100 {
		if seen[i] != seen[i%10] {
			t.Fatalf("user %d got two sessions", i%10)
		}
	}
}
