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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/zintix-labs/dicelab/sdk/cons"
	"github.com/zintix-labs/dicelab/sdk/ops"
	"github.com/zintix-labs/dicelab/sdk/prob"
	"github.com/zintix-labs/dicelab/stats"
)

func TestDistTableColumns(t *testing.T) {
	// a distribution where constraint ids 3 and 12 both appear
	a := prob.NewDice(2).AddSelfValueConstraint(12)
	b := prob.NewSingle(prob.NewOutcomeWithConstraints(10, cons.NewSingle(3, 1)))
	d := a.Combine(b, ops.Add)

	tbl := stats.NewDistTable(d)
	// id columns sorted ascending after the fixed prefix
	if !slices.Equal(tbl.Columns, []string{"value", "count", "probability", "3", "12"}) {
		t.Fatalf("unexpected columns: %v", tbl.Columns)
	}
	for _, row := range tbl.Rows {
		if len(row) != len(tbl.Columns) {
			t.Fatalf("ragged row: %v", row)
		}
	}
}

func TestDistTableCellsAndAbsentMarker(t *testing.T) {
	d := prob.NewMany(
		prob.NewOutcomeWithConstraints(5, cons.NewMany(2, 40, 60, 50)),
		prob.NewOutcome(6),
	)
	tbl := stats.NewDistTable(d)
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	// rows follow outcome order: value 5 first
	if tbl.Rows[0][0] != "5" || tbl.Rows[0][1] != "1" {
		t.Fatalf("unexpected first row: %v", tbl.Rows[0])
	}
	// constrained cell is the sorted comma-joined set
	if tbl.Rows[0][3] != "40, 50, 60" {
		t.Fatalf("expected %q, got %q", "40, 50, 60", tbl.Rows[0][3])
	}
	// absent constraint renders as the empty string
	if tbl.Rows[1][3] != "" {
		t.Fatalf("expected empty absent marker, got %q", tbl.Rows[1][3])
	}
}

func TestDistTableProbabilityColumn(t *testing.T) {
	// 2d3: counts 1,2,3,2,1 over a total of 9
	tbl := stats.NewDistTable(prob.NewMultipleDice(2, 3))
	want := []float64{1, 2, 3, 2, 1}
	var sum float64
	for i, row := range tbl.Rows {
		p, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			t.Fatalf("probability cell not a float: %q", row[2])
		}
		if math.Abs(p-want[i]/9) > 1e-12 {
			t.Fatalf("row %d: expected probability %f, got %f", i, want[i]/9, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("probabilities must sum to 1, got %f", sum)
	}
}

func TestDistTableString(t *testing.T) {
	d := prob.NewDice(2)
	out := stats.NewDistTable(d).String()
	if !strings.Contains(out, "| value") || !strings.Contains(out, "+---") {
		t.Fatalf("unexpected table rendering:\n%s", out)
	}
}

func TestDistReportMoments(t *testing.T) {
	r := stats.NewDistReport("d6", prob.NewDice(6))
	if r.Outcomes != 6 || r.TotalCount != 6 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.Min != 1 || r.Max != 6 {
		t.Fatalf("unexpected range: min=%d max=%d", r.Min, r.Max)
	}
	if math.Abs(r.Mean-3.5) > 1e-9 {
		t.Fatalf("expected mean 3.5, got %f", r.Mean)
	}
	if math.Abs(r.Std*r.Std-r.Variance) > 1e-9 {
		t.Fatalf("std and variance disagree: %f vs %f", r.Std, r.Variance)
	}
	if r.Median < 3 || r.Median > 4 {
		t.Fatalf("median out of range: %f", r.Median)
	}
}

func TestDistReportEmptyDistribution(t *testing.T) {
	r := stats.NewDistReport("none", prob.NewEmpty())
	if r.Outcomes != 0 || r.TotalCount != 0 {
		t.Fatalf("empty distribution must report zeros: %+v", r)
	}
	if r.Mean != 0 || r.Std != 0 {
		t.Fatalf("empty distribution must keep zero moments: %+v", r)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	r := stats.NewDistReport("2d3", prob.NewMultipleDice(2, 3))
	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &stats.JsonDistReportRender{}); err != nil {
		t.Fatalf("json render failed: %v", err)
	}
	got := new(stats.DistReport)
	if err := json.Unmarshal(buf.Bytes(), got); err != nil {
		t.Fatalf("json output not parseable: %v", err)
	}
	if got.Name != "2d3" || got.TotalCount != 9 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRenderYAMLFlowSequences(t *testing.T) {
	r := stats.NewDistReport("d2", prob.NewDice(2))
	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &stats.YAMLDistReportRender{}); err != nil {
		t.Fatalf("yaml render failed: %v", err)
	}
	out := buf.String()
	// innermost sequences are forced to flow style
	if !strings.Contains(out, "[") {
		t.Fatalf("expected flow-style sequences in:\n%s", out)
	}
}

func TestRenderText(t *testing.T) {
	r := stats.NewDistReport("d3", prob.NewDice(3))
	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &stats.TextDistReportRender{}); err != nil {
		t.Fatalf("text render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "d3") {
		t.Fatalf("text render missing title:\n%s", buf.String())
	}
}
