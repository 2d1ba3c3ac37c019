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

// Package cons 實作約束代數（constraint algebra）。
//
// 一個 Constraint 代表「某個隨機來源（以 ConstraintID 識別）目前仍被允許
// 開出的值集合」。同一顆骰子在運算式中被引用兩次時，兩個引用必須解析到
// 同一次擲骰；引擎靠 Constraint 的交集運算把自相矛盾的組合剪掉。
//
// Constraint 與 Map 都是 immutable value type：所有運算回傳新值，
// 不會修改接收者。
package cons

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-set/v3"

	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/spec"
)

// Constraint 一個隨機來源目前仍被允許的值集合。
//
// 理論上可能（theoretically possible）的判準：值集合非空。
// 空集合代表該來源被要求同時開出兩組不相交的面，屬於應被剪枝的組合。
type Constraint struct {
	ID    spec.ConstraintID
	valid *set.Set[spec.Value]
}

// NewEmpty 建立一個沒有任何允許值的 Constraint（理論上不可能）。
// 多用於測試與剪枝邊界。
func NewEmpty(id spec.ConstraintID) Constraint {
	return Constraint{ID: id, valid: set.New[spec.Value](0)}
}

// NewSingle 建立只允許單一值的 Constraint。
func NewSingle(id spec.ConstraintID, v spec.Value) Constraint {
	s := set.New[spec.Value](1)
	s.Insert(v)
	return Constraint{ID: id, valid: s}
}

// NewMany 建立允許多個值的 Constraint，重複值會被去重。
func NewMany(id spec.ConstraintID, vs ...spec.Value) Constraint {
	s := set.New[spec.Value](len(vs))
	for _, v := range vs {
		s.Insert(v)
	}
	return Constraint{ID: id, valid: s}
}

// CompliantWith 回報 v 是否仍是允許值。
func (c Constraint) CompliantWith(v spec.Value) bool {
	return c.valid != nil && c.valid.Contains(v)
}

// TheoreticallyPossible 回報值集合是否非空。
func (c Constraint) TheoreticallyPossible() bool {
	return c.valid != nil && !c.valid.Empty()
}

// Size 回傳允許值數量。
func (c Constraint) Size() int {
	if c.valid == nil {
		return 0
	}
	return c.valid.Size()
}

// ValidValues 回傳排序後的允許值（copy，呼叫端可自由修改）。
func (c Constraint) ValidValues() []spec.Value {
	if c.valid == nil {
		return nil
	}
	vs := c.valid.Slice()
	slices.Sort(vs)
	return vs
}

// Combine 交集兩個同 id 的 Constraint。
//
// id 不一致是程式錯誤（兩個不同來源的約束永遠不該被交到一起），
// 直接以 Fatal panic 中止整個計算，絕不靜默選邊。
func (c Constraint) Combine(other Constraint) Constraint {
	if c.ID != other.ID {
		panic(errs.Fatalf("constraint id mismatch: %d != %d", c.ID, other.ID))
	}
	small, big := c.valid, other.valid
	if small.Size() > big.Size() {
		small, big = big, small
	}
	out := set.New[spec.Value](small.Size())
	for _, v := range small.Slice() {
		if big.Contains(v) {
			out.Insert(v)
		}
	}
	return Constraint{ID: c.ID, valid: out}
}

// Equal 值集合與 id 皆相同才相等。
func (c Constraint) Equal(other Constraint) bool {
	return c.Compare(other) == 0
}

// Compare 先比 id，再比排序後的值序列（字典序），最後比長度。
// 排序只服務於正規化比較與可重現輸出，不影響演算法正確性。
func (c Constraint) Compare(other Constraint) int {
	if c.ID != other.ID {
		if c.ID < other.ID {
			return -1
		}
		return 1
	}
	a, b := c.ValidValues(), other.ValidValues()
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// String 供 debug 輸出，值固定排序。
func (c Constraint) String() string {
	return fmt.Sprintf("%d:%v", c.ID, c.ValidValues())
}
