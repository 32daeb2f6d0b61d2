package prices

import (
	"testing"

	"github.com/cocoguard/cart-session-service/internal/model"
)

func pt(date string, price float64) model.PricePoint {
	return model.PricePoint{Date: date, Price: &price}
}

func TestStoreScopesAreIsolated(t *testing.T) {
	s := New()
	s.Add("farm-a", pt("2025-09-01", 100))
	s.Add("farm-b", pt("2025-09-01", 999))

	if got := s.List("farm-a"); len(got) != 1 || *got[0].Price != 100 {
		t.Fatalf("unexpected farm-a samples: %+v", got)
	}
	if got := s.List("farm-b"); len(got) != 1 || *got[0].Price != 999 {
		t.Fatalf("unexpected farm-b samples: %+v", got)
	}
}

func TestStoreIgnoresEmptyScope(t *testing.T) {
	s := New()
	s.Add("", pt("2025-09-01", 100))
	if got := s.List(""); len(got) != 0 {
		t.Fatalf("expected no samples, got %+v", got)
	}
}

func TestStoreListReturnsCopy(t *testing.T) {
	s := New()
	s.Add("farm-a", pt("2025-09-01", 100))
	got := s.List("farm-a")
	got[0].Date = "mutated"
	if s.List("farm-a")[0].Date != "2025-09-01" {
		t.Fatalf("internal state mutated through List result")
	}
}

func TestStoreKeepsArrivalOrder(t *testing.T) {
	s := New()
	s.Add("farm-a", pt("2025-09-02", 2))
	s.Add("farm-a", pt("2025-09-01", 1))
	got := s.List("farm-a")
	if len(got) != 2 || got[0].Date != "2025-09-02" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
