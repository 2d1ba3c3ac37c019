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

// Package ops 提供引擎使用的 checked 二元/一元運算子。
//
// 溢位與除以零是 fatal：一個被 wrap 掉的值會讓整張機率分布靜默地錯，
// 比當場中止更糟。所以這裡不回傳 sentinel，直接以 *errs.E panic，
// 由邊界層 recover。
package ops

import (
	"math"

	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/spec"
)

// BinaryOp 以 first-class function 表示的二元運算。
// 引擎的 Combine 以它為參數，所有具名運算子都是單行特化。
type BinaryOp func(a, b spec.Value) spec.Value

// UnaryOp 一元運算。
type UnaryOp func(a spec.Value) spec.Value

// checked 以 int64 寬化檢查 int32 範圍。
func checked(v int64, what string, a, b spec.Value) spec.Value {
	if v < math.MinInt32 || v > math.MaxInt32 {
		panic(errs.Fatalf("attempt to %s with overflow: %d, %d", what, a, b))
	}
	return spec.Value(v)
}

// Add a + b，checked。
func Add(a, b spec.Value) spec.Value {
	return checked(int64(a)+int64(b), "add", a, b)
}

// Sub a - b，checked。
func Sub(a, b spec.Value) spec.Value {
	return checked(int64(a)-int64(b), "subtract", a, b)
}

// Mul a * b，checked。
func Mul(a, b spec.Value) spec.Value {
	return checked(int64(a)*int64(b), "multiply", a, b)
}

// Div a / b（截斷除法）。b 為 0 或 MinInt32 / -1 都是 fatal。
func Div(a, b spec.Value) spec.Value {
	if b == 0 {
		panic(errs.Fatalf("attempt to divide by zero: %d / 0", a))
	}
	return checked(int64(a)/int64(b), "divide", a, b)
}

// Rem a % b（與截斷除法配對的餘數）。b 為 0 是 fatal。
func Rem(a, b spec.Value) spec.Value {
	if b == 0 {
		panic(errs.Fatalf("attempt to calculate the remainder with a divisor of zero: %d %% 0", a))
	}
	return checked(int64(a)%int64(b), "calculate the remainder", a, b)
}

// BitAnd a & b。位元運算不會溢位。
func BitAnd(a, b spec.Value) spec.Value { return a & b }

// BitOr a | b。
func BitOr(a, b spec.Value) spec.Value { return a | b }

// BitXor a ^ b。
func BitXor(a, b spec.Value) spec.Value { return a ^ b }

// Neg -a。MinInt32 取負會溢位，checked。
func Neg(a spec.Value) spec.Value {
	return checked(-int64(a), "negate", a, a)
}

// Not 位元反轉。
func Not(a spec.Value) spec.Value { return ^a }

// ByName 依運算子符號（spec.Operators 的鍵）取 BinaryOp。
func ByName(op string) (BinaryOp, bool) {
	switch op {
	case "+":
		return Add, true
	case "-":
		return Sub, true
	case "*":
		return Mul, true
	case "/":
		return Div, true
	case "%":
		return Rem, true
	case "&":
		return BitAnd, true
	case "|":
		return BitOr, true
	case "^":
		return BitXor, true
	}
	return nil, false
}
