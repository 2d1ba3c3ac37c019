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
	"strings"

	"github.com/zintix-labs/dicelab/spec"
)

// Map 一組生效中的約束，每個 ConstraintID 至多一筆。
//
// 不變量：m[id].ID == id。空 Map 是 Combine 的單位元素，且 vacuously possible。
type Map struct {
	m map[spec.ConstraintID]Constraint
}

// NewMap 建立空 Map。
func NewMap() Map {
	return Map{m: map[spec.ConstraintID]Constraint{}}
}

// MapOf 依輸入順序把一串 Constraint 摺疊成 Map；同 id 的項目彼此交集。
func MapOf(cs ...Constraint) Map {
	out := NewMap()
	for _, c := range cs {
		out = out.Add(c)
	}
	return out
}

// Add 把一個 Constraint 併入 Map：id 已存在就交集，否則插入。
func (m Map) Add(c Constraint) Map {
	out := m.clone()
	if cur, ok := out.m[c.ID]; ok {
		out.m[c.ID] = cur.Combine(c)
	} else {
		out.m[c.ID] = c
	}
	return out
}

// Combine 是 Map 層級的「+」：鍵取聯集；兩邊都有的 id 交集，
// 只出現在單邊的 id 原樣帶過。
func (m Map) Combine(other Map) Map {
	out := m.clone()
	for id, c := range other.m {
		if cur, ok := out.m[id]; ok {
			out.m[id] = cur.Combine(c)
		} else {
			out.m[id] = c
		}
	}
	return out
}

// TheoreticallyPossible 對所有內含 Constraint 取 AND；空 Map 為 true。
func (m Map) TheoreticallyPossible() bool {
	for _, c := range m.m {
		if !c.TheoreticallyPossible() {
			return false
		}
	}
	return true
}

// CompliantWith 檢查一組 (id, value)：Map 內有該 id 的約束時 value 必須在
// 允許集合內；Map 內沒有的 id 不構成限制。
func (m Map) CompliantWith(idValues map[spec.ConstraintID]spec.Value) bool {
	for id, v := range idValues {
		if c, ok := m.m[id]; ok && !c.CompliantWith(v) {
			return false
		}
	}
	return true
}

// Get 取出指定 id 的 Constraint。
func (m Map) Get(id spec.ConstraintID) (Constraint, bool) {
	c, ok := m.m[id]
	return c, ok
}

// Len 回傳內含 Constraint 數。
func (m Map) Len() int { return len(m.m) }

// Constraints 回傳全部 Constraint，以 Compare 序排好（id 唯一，等同 id 序）。
func (m Map) Constraints() []Constraint {
	out := make([]Constraint, 0, len(m.m))
	for _, c := range m.m {
		out = append(out, c)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Compare(out[j-1]) < 0; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Equal 鍵集合與每筆 Constraint 完全一致才相等。
func (m Map) Equal(other Map) bool {
	return m.Compare(other) == 0
}

// Compare 依排序後的 Constraint 序列逐筆比較，再比項目數。
func (m Map) Compare(other Map) int {
	a, b := m.Constraints(), other.Constraints()
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if r := a[i].Compare(b[i]); r != 0 {
			return r
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

// Key 回傳正規化字串（id 升冪、值排序），作為分布累加器的 map key。
// 兩個 Map 的 Key 相同 iff Equal。
func (m Map) Key() string {
	cs := m.Constraints()
	var sb strings.Builder
	for i, c := range cs {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// String 供 debug 輸出。
func (m Map) String() string {
	return "{" + m.Key() + "}"
}

func (m Map) clone() Map {
	out := Map{m: make(map[spec.ConstraintID]Constraint, len(m.m)+1)}
	for id, c := range m.m {
		out.m[id] = c
	}
	return out
}
