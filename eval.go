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

package dicelab

import (
	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/sdk/ops"
	"github.com/zintix-labs/dicelab/sdk/prob"
	"github.com/zintix-labs/dicelab/spec"
)

// EvalOpts 評估選項。
type EvalOpts struct {
	// Workers > 0 時，分布間的 cross product 走分片平行路徑。
	Workers int
	// Progress 不為 nil 時，每完成一節回報 (done, total)。
	Progress func(done, total int)
}

// Eval 依名稱評估 catalog 中的 roll，回傳其精確分布。
func (dl *Dicelab) Eval(name string) (*prob.Distribution, error) {
	return dl.EvalWith(name, EvalOpts{})
}

// EvalByID 依 RID 評估 catalog 中的 roll。
func (dl *Dicelab) EvalByID(id spec.RID) (*prob.Distribution, error) {
	rs, err := dl.cat.RollSettingByID(id)
	if err != nil {
		return nil, err
	}
	return EvalSetting(rs, EvalOpts{})
}

// EvalWith 同 Eval，帶選項。
func (dl *Dicelab) EvalWith(name string, opts EvalOpts) (*prob.Distribution, error) {
	rs, err := dl.cat.RollSettingByName(name)
	if err != nil {
		return nil, err
	}
	return EvalSetting(rs, opts)
}

// EvalSetting 把一份 RollSetting 編譯成分布。
//
// 只使用引擎的公開合約：NewDice / NewMultipleDice、具名運算子、
// AddSelfValueConstraint、Combine。逐節由左至右摺疊；
// 引擎內的 fatal panic（溢位/除零）在這裡 recover 成 error 回傳，
// 讓呼叫端（HTTP handler / CLI）拿到的是一般的失敗而不是崩潰。
func EvalSetting(rs *spec.RollSetting, opts EvalOpts) (d *prob.Distribution, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errs.E); ok {
				d, err = nil, e
				return
			}
			panic(r)
		}
	}()

	total := len(rs.Terms)
	report := func(done int) {
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	acc := termDistribution(rs.Terms[0])
	report(1)

	for i := 1; i < total; i++ {
		t := rs.Terms[i]
		op, ok := ops.ByName(t.Op)
		if !ok {
			return nil, errs.Fatalf("invalid op %q at term %d", t.Op, i)
		}
		if t.Scalar != nil {
			// 純量走單趟路徑，不做 cross product。
			acc = acc.CombineValue(*t.Scalar, op)
			report(i + 1)
			continue
		}
		rhs := termDistribution(t)
		if opts.Workers > 0 {
			acc = acc.CombineParallel(rhs, op, opts.Workers)
		} else {
			acc = acc.Combine(rhs, op)
		}
		report(i + 1)
	}
	return acc, nil
}

// termDistribution 建立單節的分布：骰池或純量，外加自值約束標籤。
func termDistribution(t spec.Term) *prob.Distribution {
	if t.Scalar != nil {
		return prob.NewSingle(prob.NewOutcome(*t.Scalar))
	}
	var d *prob.Distribution
	if t.Dice.Count == 1 {
		d = prob.NewDice(t.Dice.Sides)
	} else {
		d = prob.NewMultipleDice(t.Dice.Count, t.Dice.Sides)
	}
	if t.Tag != nil {
		d = d.AddSelfValueConstraint(*t.Tag)
	}
	return d
}
