package session

import (
	"sync"
	"testing"

	"github.com/m3rciful/catalogbot/catalog"
)

func TestResetFlowKeepsPrefer(t *testing.T) {
	var s Session
	s.Flow = FlowProduct
	s.Step = StepProductTitle
	s.Product.Title = "x"
	s.Remember("A", "B", catalog.ModeFlat)

	s.ResetFlow()

	if s.Flow != FlowNone || s.Step != StepNone || s.Product.Title != "" {
		t.Fatalf("flow state not cleared: %+v", s)
	}
	if m, ok := s.Preferred("A", "B"); !ok || m != catalog.ModeFlat {
		t.Fatalf("prefer lost on flow reset: %v %v", m, ok)
	}
}

func TestResetClearsPrefer(t *testing.T) {
	var s Session
	s.Remember("A", "B", catalog.ModeSized)
	s.Reset()
	if _, ok := s.Preferred("A", "B"); ok {
		t.Fatal("full reset must drop prefer")
	}
}

func TestRememberIgnoresInvalid(t *testing.T) {
	var s Session
	s.Remember("", "B", catalog.ModeFlat)
	s.Remember("A", "B", catalog.Mode("bogus"))
	if len(s.Prefer) != 0 {
		t.Fatalf("invalid remembers stored: %v", s.Prefer)
	}
}

func TestRepoIsolatesChats(t *testing.T) {
	r := NewRepo()
	_ = r.Do(1, func(s *Session) error {
		s.Flow = FlowBanner
		s.Step = StepBannerImage
		return nil
	})

	if !r.InProgress(1) {
		t.Fatal("chat 1 should be in progress")
	}
	if r.InProgress(2) {
		t.Fatal("chat 2 should be idle")
	}

	r.Reset(1)
	if r.InProgress(1) {
		t.Fatal("reset should clear chat 1")
	}
}

func TestRepoSerializesPerChat(t *testing.T) {
	r := NewRepo()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Do(7, func(s *Session) error {
				s.Product.Price = s.Product.Price + "x"
				return nil
			})
		}()
	}
	wg.Wait()

	_ = r.Do(7, func(s *Session) error {
		if len(s.Product.Price) != n {
			t.Errorf("lost updates: got %d, want %d", len(s.Product.Price), n)
		}
		return nil
	})
}
