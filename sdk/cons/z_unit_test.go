// Copyright 2025 Zintix Labs
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

package cons

import (
	"slices"
	"testing"

	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/spec"
)

func TestConstraintConstructors(t *testing.T) {
	e := NewEmpty(3)
	if e.TheoreticallyPossible() {
		t.Fatalf("empty constraint must be impossible")
	}
	if e.Size() != 0 {
		t.Fatalf("expected size 0, got %d", e.Size())
	}

	s := NewSingle(3, 5)
	if !s.CompliantWith(5) || s.CompliantWith(6) {
		t.Fatalf("single constraint compliance broken")
	}

	// duplicates collapse
	m := NewMany(3, 2, 2, 4, 2)
	if m.Size() != 2 {
		t.Fatalf("expected deduped size 2, got %d", m.Size())
	}
	if got := m.ValidValues(); !slices.Equal(got, []spec.Value{2, 4}) {
		t.Fatalf("expected sorted [2 4], got %v", got)
	}
}

func TestConstraintCombineIntersects(t *testing.T) {
	a := NewMany(24, 10, 20, 30, 40, 50, 60)
	b := NewMany(24, 40, 50, 60, 70)

	got := a.Combine(b)
	if !slices.Equal(got.ValidValues(), []spec.Value{40, 50, 60}) {
		t.Fatalf("expected [40 50 60], got %v", got.ValidValues())
	}

	// commutative
	if !got.Equal(b.Combine(a)) {
		t.Fatalf("combine must be commutative")
	}

	// associative
	c := NewMany(24, 50, 60, 99)
	left := a.Combine(b).Combine(c)
	right := a.Combine(b.Combine(c))
	if !left.Equal(right) {
		t.Fatalf("combine must be associative: %v vs %v", left, right)
	}
}

func TestConstraintCombineDisjointIsImpossible(t *testing.T) {
	a := NewSingle(1, 2)
	b := NewSingle(1, 3)
	got := a.Combine(b)
	if got.TheoreticallyPossible() {
		t.Fatalf("disjoint sets must combine to impossible, got %v", got)
	}
	// impossible absorbs everything
	if got.Combine(a).TheoreticallyPossible() {
		t.Fatalf("impossible constraint must stay impossible")
	}
}

func TestConstraintCombineIDMismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic on id mismatch")
		}
		e, ok := r.(*errs.E)
		if !ok || e.ErrLv != errs.Fatal {
			t.Fatalf("expected fatal *errs.E, got %#v", r)
		}
	}()
	NewSingle(1, 2).Combine(NewSingle(2, 2))
}

func TestConstraintCompare(t *testing.T) {
	// id dominates
	if NewSingle(1, 9).Compare(NewSingle(2, 1)) >= 0 {
		t.Fatalf("lower id must order first")
	}
	// same id: values lexicographic
	if NewMany(1, 1, 2).Compare(NewMany(1, 1, 3)) >= 0 {
		t.Fatalf("[1 2] must order before [1 3]")
	}
	// prefix orders before longer sequence
	if NewMany(1, 1, 2).Compare(NewMany(1, 1, 2, 3)) >= 0 {
		t.Fatalf("prefix must order first")
	}
	if NewMany(1, 3, 1).Compare(NewMany(1, 1, 3)) != 0 {
		t.Fatalf("insertion order must not matter")
	}
}

func TestMapAddAndCombine(t *testing.T) {
	m := NewMap()
	if !m.TheoreticallyPossible() {
		t.Fatalf("empty map must be vacuously possible")
	}

	m1 := m.Add(NewMany(1, 1, 2, 3)).Add(NewSingle(2, 5))
	if m1.Len() != 2 {
		t.Fatalf("expected 2 constraints, got %d", m1.Len())
	}
	// original untouched
	if m.Len() != 0 {
		t.Fatalf("add must not mutate receiver")
	}

	// same id folds by intersection
	m2 := m1.Add(NewMany(1, 2, 3, 4))
	c, _ := m2.Get(1)
	if !slices.Equal(c.ValidValues(), []spec.Value{2, 3}) {
		t.Fatalf("expected [2 3], got %v", c.ValidValues())
	}

	// map combine: union of keys, shared keys intersect
	other := MapOf(NewMany(1, 3, 9), NewSingle(7, 7))
	got := m1.Combine(other)
	if got.Len() != 3 {
		t.Fatalf("expected 3 constraints, got %d", got.Len())
	}
	c1, _ := got.Get(1)
	if !slices.Equal(c1.ValidValues(), []spec.Value{3}) {
		t.Fatalf("shared id must intersect, got %v", c1.ValidValues())
	}
	c2, _ := got.Get(2)
	if !slices.Equal(c2.ValidValues(), []spec.Value{5}) {
		t.Fatalf("one-sided id must carry over, got %v", c2.ValidValues())
	}

	// commutative at map level too
	if !got.Equal(other.Combine(m1)) {
		t.Fatalf("map combine must be commutative")
	}
}

func TestMapPossibilityAggregates(t *testing.T) {
	ok := MapOf(NewSingle(1, 1), NewSingle(2, 2))
	if !ok.TheoreticallyPossible() {
		t.Fatalf("all-possible map must be possible")
	}
	bad := ok.Add(NewEmpty(3))
	if bad.TheoreticallyPossible() {
		t.Fatalf("one impossible entry must poison the map")
	}
}

func TestMapCompliantWith(t *testing.T) {
	m := MapOf(NewMany(1, 1, 2), NewSingle(2, 5))
	if !m.CompliantWith(map[spec.ConstraintID]spec.Value{1: 2, 2: 5}) {
		t.Fatalf("in-set values must comply")
	}
	if m.CompliantWith(map[spec.ConstraintID]spec.Value{1: 3}) {
		t.Fatalf("out-of-set value must not comply")
	}
	// unknown ids are unconstrained
	if !m.CompliantWith(map[spec.ConstraintID]spec.Value{99: 123}) {
		t.Fatalf("unknown id must not constrain")
	}
}

func TestMapKeyCanonical(t *testing.T) {
	a := MapOf(NewMany(2, 6, 4), NewSingle(1, 3))
	b := MapOf(NewSingle(1, 3), NewMany(2, 4, 6))
	if a.Key() != b.Key() {
		t.Fatalf("key must be order independent: %q vs %q", a.Key(), b.Key())
	}
	c := MapOf(NewSingle(1, 3), NewMany(2, 4, 7))
	if a.Key() == c.Key() {
		t.Fatalf("different maps must not share a key")
	}
}
