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

package dicelab_test

import (
	"math"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/dicelab"
	"github.com/zintix-labs/dicelab/demo/demo_configs"
	"github.com/zintix-labs/dicelab/sdk/prob"
	"github.com/zintix-labs/dicelab/spec"
)

func newDemoLab(t *testing.T) *dicelab.Dicelab {
	t.Helper()
	lab, err := dicelab.NewAuto(dicelab.Configs(demo_configs.FS))
	if err != nil {
		t.Fatalf("new lab: %v", err)
	}
	return lab
}

func valueCounts(d *prob.Distribution) map[spec.Value]spec.Count {
	out := map[spec.Value]spec.Count{}
	for _, oc := range d.Outcomes() {
		out[oc.Outcome.Value] += oc.Count
	}
	return out
}

func TestNewAutoRegistersDemoConfigs(t *testing.T) {
	lab := newDemoLab(t)
	sums := lab.Summaries()
	if len(sums) != 3 {
		t.Fatalf("expected 3 demo rolls, got %d", len(sums))
	}
	if _, ok := lab.EntryByName("two_d6_plus_3"); !ok {
		t.Fatalf("demo roll missing")
	}
	if ent, ok := lab.EntryById(3); !ok || ent.Name != "mirrored_d4" {
		t.Fatalf("unexpected entry for rid 3: %+v", ent)
	}
}

func TestEvalTwoD6Plus3(t *testing.T) {
	lab := newDemoLab(t)
	d, err := lab.Eval("two_d6_plus_3")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := valueCounts(d)
	want := map[spec.Value]spec.Count{
		5: 1, 6: 2, 7: 3, 8: 4, 9: 5, 10: 6, 11: 5, 12: 4, 13: 3, 14: 2, 15: 1,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), got)
	}
	for v, n := range want {
		if got[v] != n {
			t.Fatalf("value %d: expected %d, got %d", v, n, got[v])
		}
	}
	if d.TotalOutcomeCount() != 36 {
		t.Fatalf("2d6 must have 36 combinations, got %d", d.TotalOutcomeCount())
	}
}

func TestEvalMirroredD4PrunesToDiagonal(t *testing.T) {
	lab := newDemoLab(t)
	d, err := lab.Eval("mirrored_d4")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := valueCounts(d)
	want := map[spec.Value]spec.Count{2: 1, 4: 1, 6: 1, 8: 1}
	for v, n := range want {
		if got[v] != n {
			t.Fatalf("value %d: expected %d, got %d (%v)", v, n, got[v], got)
		}
	}
	if d.TotalOutcomeCount() != 4 {
		t.Fatalf("mirrored d4 must keep 4 of 16 pairs, got %d", d.TotalOutcomeCount())
	}
}

func TestEvalByIDMatchesEvalByName(t *testing.T) {
	lab := newDemoLab(t)
	byName, err := lab.Eval("skill_check_d20")
	if err != nil {
		t.Fatalf("eval by name: %v", err)
	}
	byID, err := lab.EvalByID(2)
	if err != nil {
		t.Fatalf("eval by id: %v", err)
	}
	if !byName.Equal(byID) {
		t.Fatalf("id and name evaluation diverged")
	}
	// d20 x d4 = 80 combinations
	if byID.TotalOutcomeCount() != 80 {
		t.Fatalf("expected 80 combinations, got %d", byID.TotalOutcomeCount())
	}
}

func TestEvalWithWorkersMatchesSequential(t *testing.T) {
	lab := newDemoLab(t)
	seq, err := lab.Eval("skill_check_d20")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	par, err := lab.EvalWith("skill_check_d20", dicelab.EvalOpts{Workers: 4})
	if err != nil {
		t.Fatalf("eval parallel: %v", err)
	}
	if !seq.Equal(par) {
		t.Fatalf("parallel evaluation diverged")
	}
}

func TestEvalUnknownNameFails(t *testing.T) {
	lab := newDemoLab(t)
	if _, err := lab.Eval("no_such_roll"); err == nil {
		t.Fatalf("unknown roll must fail")
	}
}

func TestEvalSettingRecoversOverflow(t *testing.T) {
	big := spec.Value(math.MaxInt32)
	rs := &spec.RollSetting{
		RollName: "overflow",
		RollID:   99,
		Terms: []spec.Term{
			{Dice: &spec.DicePool{Count: 1, Sides: 6}},
			{Op: "+", Scalar: &big},
		},
	}
	d, err := dicelab.EvalSetting(rs, dicelab.EvalOpts{})
	if err == nil {
		t.Fatalf("expected overflow error, got %v", d)
	}
}

func TestEvalSettingReportsProgress(t *testing.T) {
	lab := newDemoLab(t)
	var calls []int
	_, err := lab.EvalWith("two_d6_plus_3", dicelab.EvalOpts{
		Progress: func(done, total int) {
			if total != 2 {
				t.Fatalf("expected 2 terms, got total %d", total)
			}
			calls = append(calls, done)
		},
	})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("unexpected progress sequence: %v", calls)
	}
}

func TestNewAutoRejectsDuplicateRollIDs(t *testing.T) {
	src := fstest.MapFS{
		"a.yaml": {Data: []byte("roll_name: a\nroll_id: 1\nterms:\n  - dice: { count: 1, sides: 6 }\n")},
		"b.yaml": {Data: []byte("roll_name: b\nroll_id: 1\nterms:\n  - dice: { count: 1, sides: 6 }\n")},
	}
	if _, err := dicelab.NewAuto(dicelab.Configs(src)); err == nil {
		t.Fatalf("duplicate roll ids must be rejected")
	}
}

func TestNewRequiresConfigs(t *testing.T) {
	if _, err := dicelab.New(nil); err == nil {
		t.Fatalf("missing configs must be rejected")
	}
}
