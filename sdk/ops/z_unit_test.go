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

package ops

import (
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/spec"
)

// mustPanicFatal runs fn and asserts it panics with a fatal *errs.E whose
// message contains want.
func mustPanicFatal(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		e, ok := r.(*errs.E)
		if !ok {
			t.Fatalf("expected *errs.E, got %#v", r)
		}
		if e.ErrLv != errs.Fatal {
			t.Fatalf("expected fatal level, got %v", e.ErrLv)
		}
		if !strings.Contains(e.Error(), want) {
			t.Fatalf("expected message containing %q, got %q", want, e.Error())
		}
	}()
	fn()
}

func TestArithmeticHappyPath(t *testing.T) {
	if got := Add(2, 3); got != 5 {
		t.Fatalf("add: expected 5, got %d", got)
	}
	if got := Sub(2, 3); got != -1 {
		t.Fatalf("sub: expected -1, got %d", got)
	}
	if got := Mul(-4, 3); got != -12 {
		t.Fatalf("mul: expected -12, got %d", got)
	}
	// truncated division, not floored
	if got := Div(-7, 2); got != -3 {
		t.Fatalf("div: expected -3, got %d", got)
	}
	if got := Rem(-7, 2); got != -1 {
		t.Fatalf("rem: expected -1, got %d", got)
	}
	if got := Neg(7); got != -7 {
		t.Fatalf("neg: expected -7, got %d", got)
	}
	if got := Not(0); got != -1 {
		t.Fatalf("not: expected -1, got %d", got)
	}
}

func TestBitwise(t *testing.T) {
	if got := BitAnd(6, 3); got != 2 {
		t.Fatalf("and: expected 2, got %d", got)
	}
	if got := BitOr(6, 3); got != 7 {
		t.Fatalf("or: expected 7, got %d", got)
	}
	if got := BitXor(6, 3); got != 5 {
		t.Fatalf("xor: expected 5, got %d", got)
	}
}

func TestOverflowIsFatal(t *testing.T) {
	mustPanicFatal(t, "attempt to add with overflow", func() {
		Add(math.MaxInt32, 1)
	})
	mustPanicFatal(t, "attempt to subtract with overflow", func() {
		Sub(math.MinInt32, 1)
	})
	mustPanicFatal(t, "attempt to multiply with overflow", func() {
		Mul(math.MaxInt32, 2)
	})
	// the one overflowing division case
	mustPanicFatal(t, "attempt to divide with overflow", func() {
		Div(math.MinInt32, -1)
	})
	mustPanicFatal(t, "attempt to negate with overflow", func() {
		Neg(math.MinInt32)
	})
}

func TestDivideByZeroIsFatal(t *testing.T) {
	mustPanicFatal(t, "attempt to divide by zero", func() {
		Div(1, 0)
	})
	mustPanicFatal(t, "divisor of zero", func() {
		Rem(1, 0)
	})
}

func TestByName(t *testing.T) {
	cases := []struct {
		op   string
		a, b spec.Value
		want spec.Value
	}{
		{"+", 2, 3, 5},
		{"-", 2, 3, -1},
		{"*", 2, 3, 6},
		{"/", 7, 2, 3},
		{"%", 7, 2, 1},
		{"&", 6, 3, 2},
		{"|", 6, 3, 7},
		{"^", 6, 3, 5},
	}
	for _, c := range cases {
		fn, ok := ByName(c.op)
		if !ok {
			t.Fatalf("operator %q not found", c.op)
		}
		if got := fn(c.a, c.b); got != c.want {
			t.Fatalf("%q: expected %d, got %d", c.op, c.want, got)
		}
	}
	if _, ok := ByName("**"); ok {
		t.Fatalf("unknown operator must not resolve")
	}
}
