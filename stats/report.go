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

package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/zintix-labs/dicelab/sdk/prob"
	"github.com/zintix-labs/dicelab/spec"
)

var lang language.Tag = language.English

// DistReport 一份分布的統計報告。
//
// 分布是精確列舉，不是抽樣：動差（moments）以組合數為權重計算，
// Variance/Std 沿用 gonum 的加權樣本修正。
type DistReport struct {
	Name       string     `json:"Name"`
	Outcomes   int        `json:"Outcomes"`
	TotalCount spec.Count `json:"TotalCount"`
	Min        spec.Value `json:"Min"`
	Max        spec.Value `json:"Max"`
	Mean       float64    `json:"Mean"`
	Variance   float64    `json:"Variance"`
	Std        float64    `json:"Std"`
	Median     float64    `json:"Median"`
	Table      *DistTable `json:"Table"`
}

// NewDistReport 由分布建立報告。空分布回傳零值統計。
func NewDistReport(name string, d *prob.Distribution) *DistReport {
	r := &DistReport{
		Name:       name,
		Outcomes:   d.Size(),
		TotalCount: d.TotalOutcomeCount(),
		Table:      NewDistTable(d),
	}
	if d.Size() == 0 {
		return r
	}

	// Outcomes 已依 (value, constraints) 排序，value 升冪，
	// 符合 gonum Quantile 對已排序輸入的要求。
	ocs := d.Outcomes()
	xs := make([]float64, len(ocs))
	ws := make([]float64, len(ocs))
	for i, oc := range ocs {
		xs[i] = float64(oc.Outcome.Value)
		ws[i] = float64(oc.Count)
	}

	r.Min = ocs[0].Outcome.Value
	r.Max = ocs[len(ocs)-1].Outcome.Value
	r.Mean = stat.Mean(xs, ws)
	r.Variance = stat.Variance(xs, ws)
	r.Std = stat.StdDev(xs, ws)
	r.Median = stat.Quantile(0.5, stat.Empirical, xs, ws)
	return r
}

// WriteWith 以指定 Render 輸出報告。
func (r *DistReport) WriteWith(w io.Writer, rep DistReportRender) error {
	return rep.Write(w, r)
}

// StdOut 在終端印出摘要與明細表格。
func (r *DistReport) StdOut() {
	keys, msg := r.fmtBasic()
	fmt.Println(fmtTable(r.Name, keys, msg))
	fmt.Println(r.Table.String())
}

func (r *DistReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Roll Name":   r.Name,
		"Outcomes":    p.Sprintf("%d", r.Outcomes),
		"Total Count": p.Sprintf("%d", uint64(r.TotalCount)),
		"Min":         p.Sprintf("%d", int64(r.Min)),
		"Max":         p.Sprintf("%d", int64(r.Max)),
		"Mean":        p.Sprintf("%.4f", r.Mean),
		"Median":      p.Sprintf("%.1f", r.Median),
		"STD":         p.Sprintf("%.4f", r.Std),
		"Variance":    p.Sprintf("%.4f", r.Variance),
	}
	keys := []string{"Roll Name", "Outcomes", "Total Count", "Min", "Max", "Mean", "Median", "STD", "Variance"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider
	return fmtStr
}
