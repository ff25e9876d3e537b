// Package schedule wraps gronx's cron parser with a bounded cache of
// validity results, so repeated validation of the same cron expression
// skips gronx. Computing the next fire time still parses the expression on
// every call.
package schedule

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	lru "github.com/hashicorp/golang-lru/v2"
)

// validityCacheSize bounds memory use for deployments with many distinct
// cron expressions; a miss just costs one gronx.IsValid call.
const validityCacheSize = 1024

// Validator checks and resolves extended (6/7-field) cron expressions,
// caching validity results since IsValid is called on every create/update
// and NextRunAfter is called on every scheduler tick.
type Validator struct {
	gx    gronx.Gronx
	cache *lru.Cache[string, bool]
}

// New constructs a Validator. Panics only if the LRU cache itself can't be
// constructed, which only happens for a non-positive size, never the case
// here.
func New() *Validator {
	cache, err := lru.New[string, bool](validityCacheSize)
	if err != nil {
		panic(fmt.Sprintf("schedule: failed to build validity cache: %v", err))
	}
	return &Validator{gx: gronx.New(), cache: cache}
}

// IsValid reports whether expr is a well-formed cron expression, consulting
// the cache before calling into gronx.
func (v *Validator) IsValid(expr string) bool {
	if cached, ok := v.cache.Get(expr); ok {
		return cached
	}
	valid := v.gx.IsValid(expr)
	v.cache.Add(expr, valid)
	return valid
}

// NextRunAfter returns the next instant expr fires strictly after `after`.
// Unlike IsValid, the next-tick computation is not cached, since it is a
// function of both expr and the current time.
func (v *Validator) NextRunAfter(expr string, after time.Time) (time.Time, error) {
	if !v.IsValid(expr) {
		return time.Time{}, fmt.Errorf("schedule: invalid cron expression %q", expr)
	}
	return gronx.NextTickAfter(expr, after, false)
}
