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

// Package prob 實作受約束的組合計數引擎（constrained combinatorial engine）。
//
// Outcome 是「一個具體結果值 + 它的來源約束（provenance）」；
// Distribution 是 Outcome 到組合數的有序 multiset。
// Distribution.Combine 是唯一的演算法核心：完整 cross product、逐對剪枝、
// 組合數相乘與合併。所有具名運算子都是對 Combine 的薄包裝。
package prob

import (
	"fmt"

	"github.com/zintix-labs/dicelab/sdk/cons"
	"github.com/zintix-labs/dicelab/sdk/ops"
	"github.com/zintix-labs/dicelab/spec"
)

// Outcome 一個已完全解析的結果值，連同它仍須滿足的來源約束。
//
// 相等性同時比較 Value 與完整的 Constraints——這是引擎正確性的關鍵：
// 同一個數值若經由不可互換的來源得到，在計數上就是不同的結果，
// 不能被合併成同一筆。
type Outcome struct {
	Value       spec.Value
	Constraints cons.Map
}

// NewOutcome 建立帶空約束的 Outcome。
func NewOutcome(v spec.Value) Outcome {
	return Outcome{Value: v, Constraints: cons.NewMap()}
}

// NewOutcomeWithMap 建立帶指定約束 Map 的 Outcome。
func NewOutcomeWithMap(v spec.Value, m cons.Map) Outcome {
	return Outcome{Value: v, Constraints: m}
}

// NewOutcomeWithConstraints 把一串 Constraint 摺疊成 Map 後建立 Outcome。
func NewOutcomeWithConstraints(v spec.Value, cs ...cons.Constraint) Outcome {
	return Outcome{Value: v, Constraints: cons.MapOf(cs...)}
}

// Combine 以 op 結合兩個 Outcome：值走 op，約束走 Map.Combine（交集）。
func (o Outcome) Combine(other Outcome, op ops.BinaryOp) Outcome {
	return Outcome{
		Value:       op(o.Value, other.Value),
		Constraints: o.Constraints.Combine(other.Constraints),
	}
}

// CombineValue 計算 op(o.Value, v)。
// 純量不帶來源，約束 Map 原樣帶過。
func (o Outcome) CombineValue(v spec.Value, op ops.BinaryOp) Outcome {
	return Outcome{Value: op(o.Value, v), Constraints: o.Constraints}
}

// ValueCombine 計算 op(v, o.Value)（運算元順序翻轉），約束策略同 CombineValue。
func (o Outcome) ValueCombine(v spec.Value, op ops.BinaryOp) Outcome {
	return Outcome{Value: op(v, o.Value), Constraints: o.Constraints}
}

// AddConstraint 把一個 Constraint 摺入 Outcome 的約束 Map。
// 用來標記「這個結果來自來源 X」。
func (o Outcome) AddConstraint(c cons.Constraint) Outcome {
	return Outcome{Value: o.Value, Constraints: o.Constraints.Add(c)}
}

// Neg 取負值，約束原樣帶過。
func (o Outcome) Neg() Outcome {
	return Outcome{Value: ops.Neg(o.Value), Constraints: o.Constraints}
}

// Not 位元反轉，約束原樣帶過。
func (o Outcome) Not() Outcome {
	return Outcome{Value: ops.Not(o.Value), Constraints: o.Constraints}
}

// 具名運算子：一行特化

func (o Outcome) Add(other Outcome) Outcome    { return o.Combine(other, ops.Add) }
func (o Outcome) Sub(other Outcome) Outcome    { return o.Combine(other, ops.Sub) }
func (o Outcome) Mul(other Outcome) Outcome    { return o.Combine(other, ops.Mul) }
func (o Outcome) Div(other Outcome) Outcome    { return o.Combine(other, ops.Div) }
func (o Outcome) Rem(other Outcome) Outcome    { return o.Combine(other, ops.Rem) }
func (o Outcome) BitAnd(other Outcome) Outcome { return o.Combine(other, ops.BitAnd) }
func (o Outcome) BitOr(other Outcome) Outcome  { return o.Combine(other, ops.BitOr) }
func (o Outcome) BitXor(other Outcome) Outcome { return o.Combine(other, ops.BitXor) }

// Equal 值與完整約束 Map 都一致才相等。
func (o Outcome) Equal(other Outcome) bool {
	return o.Compare(other) == 0
}

// Compare 以 (value, constraints) 字典序比較，value 優先。
func (o Outcome) Compare(other Outcome) int {
	if o.Value != other.Value {
		if o.Value < other.Value {
			return -1
		}
		return 1
	}
	return o.Constraints.Compare(other.Constraints)
}

// key 正規化識別字串，作為 Distribution 累加器的 map key。
func (o Outcome) key() string {
	return fmt.Sprintf("%d#%s", o.Value, o.Constraints.Key())
}

// String 供 debug 輸出。
func (o Outcome) String() string {
	return fmt.Sprintf("%d%s", o.Value, o.Constraints.String())
}
