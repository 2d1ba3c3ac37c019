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

package prob

import (
	"slices"

	"github.com/zintix-labs/dicelab/sdk/cons"
	"github.com/zintix-labs/dicelab/sdk/ops"
	"github.com/zintix-labs/dicelab/spec"
)

// OutcomeCount 一筆 Outcome 與它的組合數。
type OutcomeCount struct {
	Outcome Outcome
	Count   spec.Count
}

// Distribution Outcome 的有序 multiset：每筆 Outcome 對應「實現它的組合數」。
//
// 不變量：所有 count > 0；count 總和即 TotalOutcomeCount。
// Distribution 是 immutable value type：所有運算以函數式方式回傳新分布，
// 共用的分布永遠不被原地修改。
type Distribution struct {
	counts map[string]OutcomeCount
}

// accumulate 把 (o, n) 併入累加器：同一 Outcome（值與約束 Map 都相同）
// 已存在就加計組合數，否則新插入。結合且與順序無關，
// 因此 cross product 的分片平行化是純加法的安全優化。
func accumulate(acc map[string]OutcomeCount, o Outcome, n spec.Count) {
	k := o.key()
	if cur, ok := acc[k]; ok {
		cur.Count += n
		acc[k] = cur
		return
	}
	acc[k] = OutcomeCount{Outcome: o, Count: n}
}

// Combine 核心演算法：兩個分布的完整 cross product。
//
// 對每一對 (a, countA) × (b, countB)：
//  1. newOutcome = a.Combine(b, op)：值走 op，約束 Map 交集。
//  2. 合併後的約束 Map 理論上不可能 → 整對丟棄，貢獻零機率質量。
//     剪枝是逐對的：即使兩邊各自的 Map 都可能，交集後不可能就丟。
//  3. 否則組合數相乘並累加進結果。
//
// 任一邊為空分布時是零對，結果為空分布。
// 值運算的溢位/除零沿用 ops 的 fatal 語意：在第一個出事的 pair 直接中止，
// 迴圈內沒有 catch-and-continue。
func (d *Distribution) Combine(other *Distribution, op ops.BinaryOp) *Distribution {
	acc := make(map[string]OutcomeCount, len(d.counts))
	for _, a := range d.counts {
		for _, b := range other.counts {
			no := a.Outcome.Combine(b.Outcome, op)
			if !no.Constraints.TheoreticallyPossible() {
				continue
			}
			accumulate(acc, no, a.Count*b.Count)
		}
	}
	return &Distribution{counts: acc}
}

// CombineValue 單趟（非 cross product）把純量套在每筆 Outcome 右側。
// 純量不帶來源：約束 Map 原樣帶過，不會有新的不可能組合，
// 但值碰撞後的 Outcome 仍須重新累加（可能合併）。
func (d *Distribution) CombineValue(v spec.Value, op ops.BinaryOp) *Distribution {
	acc := make(map[string]OutcomeCount, len(d.counts))
	for _, a := range d.counts {
		accumulate(acc, a.Outcome.CombineValue(v, op), a.Count)
	}
	return &Distribution{counts: acc}
}

// ValueCombine 同 CombineValue，但純量在左側：op(v, outcome)。
func (d *Distribution) ValueCombine(v spec.Value, op ops.BinaryOp) *Distribution {
	acc := make(map[string]OutcomeCount, len(d.counts))
	for _, a := range d.counts {
		accumulate(acc, a.Outcome.ValueCombine(v, op), a.Count)
	}
	return &Distribution{counts: acc}
}

// AddConstraint 單趟把一個 Constraint 摺入每筆 Outcome 的約束 Map。
// 用來在與其他引用同一來源的分布結合之前，把整個分布標記為「來源 X」。
func (d *Distribution) AddConstraint(c cons.Constraint) *Distribution {
	acc := make(map[string]OutcomeCount, len(d.counts))
	for _, a := range d.counts {
		accumulate(acc, a.Outcome.AddConstraint(c), a.Count)
	}
	return &Distribution{counts: acc}
}

// AddSelfValueConstraint 對每筆 Outcome 摺入 {id, {outcome.Value}}：
// 直接用結果值當來源標籤。這是「同一顆骰子在不同運算式分支被引用兩次」
// 的編碼方式。
func (d *Distribution) AddSelfValueConstraint(id spec.ConstraintID) *Distribution {
	acc := make(map[string]OutcomeCount, len(d.counts))
	for _, a := range d.counts {
		c := cons.NewSingle(id, a.Outcome.Value)
		accumulate(acc, a.Outcome.AddConstraint(c), a.Count)
	}
	return &Distribution{counts: acc}
}

// TotalOutcomeCount 全部組合數總和，外部呼叫端以此正規化成機率。
func (d *Distribution) TotalOutcomeCount() spec.Count {
	var total spec.Count
	for _, a := range d.counts {
		total += a.Count
	}
	return total
}

// Size 相異 Outcome 筆數。
func (d *Distribution) Size() int { return len(d.counts) }

// Count 查詢某筆 Outcome 的組合數。
func (d *Distribution) Count(o Outcome) (spec.Count, bool) {
	oc, ok := d.counts[o.key()]
	return oc.Count, ok
}

// Outcomes 回傳全部 (Outcome, Count)，以 Outcome 全序排好，輸出可重現。
func (d *Distribution) Outcomes() []OutcomeCount {
	out := make([]OutcomeCount, 0, len(d.counts))
	for _, oc := range d.counts {
		out = append(out, oc)
	}
	slices.SortFunc(out, func(a, b OutcomeCount) int {
		return a.Outcome.Compare(b.Outcome)
	})
	return out
}

// Equal 兩分布的 Outcome 集合與組合數完全一致才相等。
func (d *Distribution) Equal(other *Distribution) bool {
	if len(d.counts) != len(other.counts) {
		return false
	}
	for k, oc := range d.counts {
		o, ok := other.counts[k]
		if !ok || o.Count != oc.Count {
			return false
		}
	}
	return true
}

// Neg 走純量路徑：等價於乘上 -1。
func (d *Distribution) Neg() *Distribution {
	return d.CombineValue(-1, ops.Mul)
}

// Not 逐筆位元反轉（純量路徑，非 cross product）。
func (d *Distribution) Not() *Distribution {
	acc := make(map[string]OutcomeCount, len(d.counts))
	for _, a := range d.counts {
		accumulate(acc, a.Outcome.Not(), a.Count)
	}
	return &Distribution{counts: acc}
}

// 具名運算子：對 Combine 的一行特化。

func (d *Distribution) Add(other *Distribution) *Distribution    { return d.Combine(other, ops.Add) }
func (d *Distribution) Sub(other *Distribution) *Distribution    { return d.Combine(other, ops.Sub) }
func (d *Distribution) Mul(other *Distribution) *Distribution    { return d.Combine(other, ops.Mul) }
func (d *Distribution) Div(other *Distribution) *Distribution    { return d.Combine(other, ops.Div) }
func (d *Distribution) Rem(other *Distribution) *Distribution    { return d.Combine(other, ops.Rem) }
func (d *Distribution) BitAnd(other *Distribution) *Distribution { return d.Combine(other, ops.BitAnd) }
func (d *Distribution) BitOr(other *Distribution) *Distribution  { return d.Combine(other, ops.BitOr) }
func (d *Distribution) BitXor(other *Distribution) *Distribution { return d.Combine(other, ops.BitXor) }
