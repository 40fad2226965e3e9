// Copyright 2024 The Nichelang Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package layout

import "fmt"

// IntRange is an inclusive [Lo, Hi] range of u64 values.
type IntRange struct {
	Lo, Hi uint64
}

// IntNiches is a single contiguous inclusive range of u64 values known to
// be unused by some field (spec §3.6). The zero value is the empty
// niche set.
//
// Note (carried from the Rust source as a known simplification, and
// named explicitly out of scope by spec §1's Non-goals): only one
// contiguous range is tracked; a fuller implementation could track
// multiple disjoint ranges via a slice here instead.
type IntNiches struct {
	rng *IntRange
}

// None is the empty niche set.
func None() IntNiches { return IntNiches{} }

// Range builds a niche set from an explicit inclusive range.
func Range(lo, hi uint64) IntNiches {
	return IntNiches{rng: &IntRange{Lo: lo, Hi: hi}}
}

func fromOption(r *IntRange) IntNiches {
	return IntNiches{rng: r}
}

// AsRange returns the underlying range and true, or (zero, false) if
// empty.
func (n IntNiches) AsRange() (IntRange, bool) {
	if n.rng == nil {
		return IntRange{}, false
	}
	return *n.rng, true
}

// IsEmpty reports whether no niche values remain.
func (n IntNiches) IsEmpty() bool {
	return n.rng == nil
}

// RemoveValue removes a single value from the niche set, arbitrarily
// keeping the upper side of the range when value falls in the interior
// (spec §3.6). It returns the narrowed set and true on success, or the
// original set and false if value was not present.
func (n IntNiches) RemoveValue(value uint64) (IntNiches, bool) {
	if n.rng == nil {
		return None(), false
	}
	newRange, ok := removeValueFromRange(value, *n.rng)
	if !ok {
		return n, false
	}
	return fromOption(newRange), true
}

func removeValueFromRange(value uint64, r IntRange) (*IntRange, bool) {
	if value < r.Lo || value > r.Hi {
		return nil, false
	}
	if value == r.Hi {
		if value == 0 {
			// Removing 0 from a range that ended at 0: the result is
			// empty.
			return nil, true
		}
		return normalizeRange(r.Lo, value-1), true
	}
	// Arbitrarily keep the upper side of the range.
	return normalizeRange(value+1, r.Hi), true
}

func normalizeRange(lo, hi uint64) *IntRange {
	if lo > hi {
		return nil
	}
	return &IntRange{Lo: lo, Hi: hi}
}

// RemoveSomeValues extracts count niche values from the low end of n,
// returning the narrowed residual set and the extracted range. It
// returns ok == false (and n unchanged) if fewer than count values were
// available.
func (n IntNiches) RemoveSomeValues(count uint64) (residual, extracted IntNiches, ok bool) {
	if n.rng == nil {
		return None(), None(), false
	}
	shrunk, shrunkOK := shrinkRangeBy(*n.rng, count)
	if !shrunkOK {
		return n, None(), false
	}
	return fromOption(shrunk.newRange), fromOption(shrunk.extracted), true
}

type rangeShrink struct {
	newRange  *IntRange
	extracted *IntRange
}

func shrinkRangeBy(r IntRange, count uint64) (rangeShrink, bool) {
	start, end := r.Lo, r.Hi
	available, finite := RangeValuesCount(r)
	if !finite {
		available = ^uint64(0) // treat an unbounded-count range (0..=MAX) as having u64::MAX values
	}
	if start > end || available < count {
		return rangeShrink{}, false
	}
	newRange := normalizeRange(start+count, end)
	var extracted *IntRange
	if count > 0 {
		extracted = normalizeRange(start, start+count-1)
	}
	return rangeShrink{newRange: newRange, extracted: extracted}, true
}

// RangeValuesCount returns the number of values in [r.Lo, r.Hi] and true,
// or (undefined, false) if the range is the full u64 span and so the
// count overflows u64 (spec §8's boundary behaviors: "(0..=u64::MAX) has
// no finite count").
func RangeValuesCount(r IntRange) (uint64, bool) {
	if r.Lo > r.Hi {
		return 0, true
	}
	span := r.Hi - r.Lo
	if span == ^uint64(0) {
		return 0, false
	}
	return span + 1, true
}

func (n IntNiches) String() string {
	if n.rng == nil {
		return "none"
	}
	return fmt.Sprintf("%d..=%d", n.rng.Lo, n.rng.Hi)
}
