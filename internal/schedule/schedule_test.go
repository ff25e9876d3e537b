package schedule

import (
	"testing"
	"time"
)

func TestIsValidAcceptsSixFieldExpression(t *testing.T) {
	v := New()
	if !v.IsValid("0 0 2 * * *") {
		t.Fatal("expected 6-field expression to be valid")
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	v := New()
	if v.IsValid("not a cron expression") {
		t.Fatal("expected garbage expression to be invalid")
	}
}

func TestIsValidCachesResult(t *testing.T) {
	v := New()
	const expr = "*/5 * * * * *"
	first := v.IsValid(expr)
	if _, ok := v.cache.Get(expr); !ok {
		t.Fatal("expected validity result to be cached after first call")
	}
	second := v.IsValid(expr)
	if first != second {
		t.Fatal("cached result differs from live result")
	}
}

func TestNextRunAfterAdvancesPastGivenTime(t *testing.T) {
	v := New()
	base := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	next, err := v.NextRunAfter("0 0 * * * *", base)
	if err != nil {
		t.Fatalf("NextRunAfter: %v", err)
	}
	if !next.After(base) {
		t.Fatalf("next = %v, want after %v", next, base)
	}
}

func TestNextRunAfterRejectsInvalidExpression(t *testing.T) {
	v := New()
	if _, err := v.NextRunAfter("garbage", time.Now().UTC()); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}
