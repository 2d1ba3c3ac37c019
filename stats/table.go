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

// Package stats 把 Distribution 匯出成表格與統計報告。
//
// 本包只讀取引擎的公開介面，不持有引擎內部狀態；
// 匯出格式的合約：每筆 Outcome 一列，value 欄、count 欄、
// probability 欄（count / 全分布組合數總和），
// 加上「整個分布中出現過的每個 constraint id」一欄——該列有此約束時
// 內容為排序後的允許值（", " 連接），沒有時為空字串。
package stats

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zintix-labs/dicelab/sdk/prob"
	"github.com/zintix-labs/dicelab/spec"
)

// DistTable Distribution 的表格形式（列序 = Outcome 全序，輸出可重現）。
type DistTable struct {
	Columns []string   `json:"Columns" yaml:"columns"`
	Rows    [][]string `json:"Rows"    yaml:"rows"`
}

// NewDistTable 由分布建表。
func NewDistTable(d *prob.Distribution) *DistTable {
	outcomes := d.Outcomes()

	// 跨所有 Outcome 收集出現過的 constraint id
	seen := map[spec.ConstraintID]struct{}{}
	ids := []spec.ConstraintID{}
	for _, oc := range outcomes {
		for _, c := range oc.Outcome.Constraints.Constraints() {
			if _, ok := seen[c.ID]; !ok {
				seen[c.ID] = struct{}{}
				ids = append(ids, c.ID)
			}
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}

	cols := make([]string, 0, 3+len(ids))
	cols = append(cols, "value", "count", "probability")
	for _, id := range ids {
		cols = append(cols, strconv.FormatUint(uint64(id), 10))
	}

	total := d.TotalOutcomeCount()
	rows := make([][]string, 0, len(outcomes))
	for _, oc := range outcomes {
		row := make([]string, 0, len(cols))
		row = append(row,
			strconv.FormatInt(int64(oc.Outcome.Value), 10),
			strconv.FormatUint(uint64(oc.Count), 10),
			strconv.FormatFloat(float64(oc.Count)/float64(total), 'g', -1, 64),
		)
		for _, id := range ids {
			c, ok := oc.Outcome.Constraints.Get(id)
			if !ok {
				row = append(row, "")
				continue
			}
			vs := c.ValidValues()
			parts := make([]string, len(vs))
			for i, v := range vs {
				parts[i] = strconv.FormatInt(int64(v), 10)
			}
			row = append(row, strings.Join(parts, ", "))
		}
		rows = append(rows, row)
	}
	return &DistTable{Columns: cols, Rows: rows}
}

// String 以 runewidth 對齊的文字表格輸出。
func (t *DistTable) String() string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	divider := func() {
		for _, w := range widths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", w+2))
		}
		sb.WriteString("+\n")
	}
	writeRow := func(cells []string) {
		for i, cell := range cells {
			sb.WriteString("| ")
			sb.WriteString(cell)
			sb.WriteString(blank(widths[i] - runewidth.StringWidth(cell)))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	divider()
	writeRow(t.Columns)
	divider()
	for _, row := range t.Rows {
		writeRow(row)
	}
	divider()
	return sb.String()
}

func blank(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
