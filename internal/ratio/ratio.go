// Package ratio computes how many grams of coffee a brew needs from a
// coffee-to-water ratio and a target water volume.
package ratio

import (
	"sync"
)

// Field names used by the ratio form.
const (
	FieldCoffeeGram = "coffee-gram"
	FieldWaterML    = "water-ml"
	FieldUseWaterML = "use-water-ml"
)

// Fields lists the ratio form fields in display order.
var Fields = []string{FieldCoffeeGram, FieldWaterML, FieldUseWaterML}

// Default values shown before the user has entered anything.
var Defaults = map[string]string{
	FieldCoffeeGram: "1",
	FieldWaterML:    "12",
	FieldUseWaterML: "200",
}

// Values is a read-only view of form field values keyed by field name.
type Values interface {
	Lookup(name string) (string, bool)
}

// Snapshot is a Values whose identity is given by its version. Two snapshots
// with the same version always hold the same values.
type Snapshot interface {
	Values
	Version() uint64
}

// Compute returns use-water-ml * (coffee-gram / water-ml).
//
// Each value is coerced with ToNumber. A missing field is NaN. Division by
// zero and NaN propagate with IEEE-754 semantics; nothing is rejected.
func Compute(v Values) float64 {
	coffee := lookupNumber(v, FieldCoffeeGram)
	water := lookupNumber(v, FieldWaterML)
	usage := lookupNumber(v, FieldUseWaterML)
	return usage * (coffee / water)
}

func lookupNumber(v Values, name string) float64 {
	if v == nil {
		return nan
	}
	s, ok := v.Lookup(name)
	if !ok {
		return nan
	}
	return ToNumber(s)
}

// Calculator memoizes Compute on the version of the snapshot it is given.
type Calculator struct {
	mu      sync.Mutex
	version uint64
	valid   bool
	value   float64
}

// Result returns the ratio for s, reusing the previous result when s has the
// same version as the last snapshot seen.
func (c *Calculator) Result(s Snapshot) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.version == s.Version() {
		return c.value
	}
	c.value = Compute(s)
	c.version = s.Version()
	c.valid = true
	return c.value
}

// MapValues adapts a plain map to Values.
type MapValues map[string]string

func (m MapValues) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}
