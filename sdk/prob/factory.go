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
	"github.com/zintix-labs/dicelab/sdk/ops"
	"github.com/zintix-labs/dicelab/spec"
)

// NewEmpty 建立空分布。
func NewEmpty() *Distribution {
	return &Distribution{counts: map[string]OutcomeCount{}}
}

// NewSingle 建立只含一筆 Outcome（組合數 1）的分布。
func NewSingle(o Outcome) *Distribution {
	acc := map[string]OutcomeCount{}
	accumulate(acc, o, 1)
	return &Distribution{counts: acc}
}

// NewMany 由多筆 Outcome 建立分布；重複的 Outcome 累加組合數。
func NewMany(os ...Outcome) *Distribution {
	acc := map[string]OutcomeCount{}
	for _, o := range os {
		accumulate(acc, o, 1)
	}
	return &Distribution{counts: acc}
}

// NewDice 建立 n 面骰的均勻分布：1..|n| 各一種組合。
// n 為負時骰面取負（-1..-|n|）；n == 0 回傳空分布。
// n == MinInt32 取絕對值會溢位，沿用 checked 取負的 fatal 語意。
func NewDice(n spec.Value) *Distribution {
	acc := map[string]OutcomeCount{}
	abs := n
	if abs < 0 {
		abs = ops.Neg(n)
	}
	for i := spec.Value(1); i <= abs; i++ {
		v := i
		if n < 0 {
			v = -i
		}
		accumulate(acc, NewOutcome(v), 1)
	}
	return &Distribution{counts: acc}
}

// NewMultipleDice 建立 m 顆 n 面骰相加的分布：NewDice(n) 自我 Combine m-1 次。
// m == 0 或 n == 0 回傳空分布。
func NewMultipleDice(m, n spec.Value) *Distribution {
	if m == 0 || n == 0 {
		return NewEmpty()
	}
	die := NewDice(n)
	out := die
	for i := spec.Value(1); i < m; i++ {
		out = out.Combine(die, ops.Add)
	}
	return out
}
