package reactive

import (
	"sync"
	"testing"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalSubscribeNotifiesOnChange(t *testing.T) {
	name := NewSignal("")
	calls := 0
	stop := name.Subscribe(func() { calls++ })

	name.Set("noor")
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}

	// Same value is not a change.
	name.Set("noor")
	if calls != 1 {
		t.Errorf("equal Set should not notify, got %d", calls)
	}

	stop()
	stop()
	name.Set("other")
	if calls != 1 {
		t.Errorf("unsubscribed callback ran, got %d", calls)
	}
}

func TestSignalMapsUseDeepEquality(t *testing.T) {
	m := NewSignal(map[string]bool{"a": true})
	calls := 0
	m.Subscribe(func() { calls++ })

	m.Set(map[string]bool{"a": true})
	if calls != 0 {
		t.Errorf("deep-equal map should not notify, got %d", calls)
	}
	m.Set(map[string]bool{"a": true, "b": true})
	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal(1).WithEquals(func(a, b int) bool { return a%2 == b%2 })
	calls := 0
	s.Subscribe(func() { calls++ })

	s.Set(3)
	if calls != 0 || s.Get() != 1 {
		t.Errorf("custom equality ignored: calls=%d value=%d", calls, s.Get())
	}
	s.Set(2)
	if calls != 1 || s.Get() != 2 {
		t.Errorf("expected change: calls=%d value=%d", calls, s.Get())
	}
}

func TestScopeBatchDeduplicates(t *testing.T) {
	scope := NewScope()
	a := NewSignal(0).In(scope)
	b := NewSignal(0).In(scope)

	perSignal := 0
	a.Subscribe(func() { perSignal++ })

	observed := 0
	var seenA, seenB int
	scope.Subscribe(func() {
		observed++
		seenA, seenB = a.Get(), b.Get()
	})

	scope.Batch(func() {
		a.Set(1)
		a.Set(2)
		b.Set(3)
		if observed != 0 {
			t.Error("scope observer ran inside batch")
		}
	})

	if observed != 1 {
		t.Errorf("expected 1 scope notification, got %d", observed)
	}
	if perSignal != 1 {
		t.Errorf("expected 1 signal notification, got %d", perSignal)
	}
	if seenA != 2 || seenB != 3 {
		t.Errorf("observer saw partial state a=%d b=%d", seenA, seenB)
	}
}

func TestScopeNestedBatch(t *testing.T) {
	scope := NewScope()
	a := NewSignal(0).In(scope)
	calls := 0
	scope.Subscribe(func() { calls++ })

	scope.Batch(func() {
		scope.Batch(func() {
			a.Set(1)
		})
		if calls != 0 {
			t.Error("inner batch flushed early")
		}
		a.Set(2)
	})

	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
}

func TestScopeWithoutBatchNotifiesImmediately(t *testing.T) {
	scope := NewScope()
	a := NewSignal(0).In(scope)
	calls := 0
	stop := scope.Subscribe(func() { calls++ })

	a.Set(1)
	a.Set(2)
	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}

	stop()
	a.Set(3)
	if calls != 2 {
		t.Errorf("unsubscribed scope observer ran, got %d", calls)
	}
}

func TestSignalConcurrentUpdates(t *testing.T) {
	count := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	if count.Get() != 50 {
		t.Errorf("expected 50, got %d", count.Get())
	}
}
