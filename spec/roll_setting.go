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

package spec

import (
	"fmt"

	"github.com/zintix-labs/dicelab/errs"
)

// Operators 是 Term.Op 允許的運算子集合。
var Operators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {},
	"&": {}, "|": {}, "^": {},
}

// DicePool 表示「count 顆 sides 面骰」的骰池。
//
// sides 可為負值（骰面為 -1..-sides），為 0 時產生空分布；這些邊界語意
// 由引擎定義，設定檔層不額外禁止。
type DicePool struct {
	Count Value `yaml:"count"  json:"count"`
	Sides Value `yaml:"sides"  json:"sides"`
}

// Term 是擲骰運算式的一節：一個骰池或一個純量，與前一節的累積結果以 Op 結合。
//
//   - 第一節不可帶 Op（沒有左運算元）。
//   - Dice 與 Scalar 必須恰好擇一。
//   - Tag 只對骰池有意義：以該 id 對整個骰池做自值約束
//     （同一顆骰子在運算式其他位置再被引用時，兩處必須開出同一面）。
type Term struct {
	Op     string        `yaml:"op,omitempty"      json:"op,omitempty"`
	Dice   *DicePool     `yaml:"dice,omitempty"    json:"dice,omitempty"`
	Scalar *Value        `yaml:"scalar,omitempty"  json:"scalar,omitempty"`
	Tag    *ConstraintID `yaml:"tag,omitempty"     json:"tag,omitempty"`
}

// RollSetting 一份具名的擲骰設定（SSOT 內容物）。
type RollSetting struct {
	RollName string `yaml:"roll_name"  json:"roll_name"`
	RollID   RID    `yaml:"roll_id"    json:"roll_id"`
	Terms    []Term `yaml:"terms"      json:"terms"`
}

// init 初始化並檢查設定。
func (rs *RollSetting) init() error {
	return rs.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (rs *RollSetting) valid() error {
	if rs.RollName == "" {
		return errs.NewFatal("empty roll_name")
	}
	if len(rs.Terms) == 0 {
		return errs.NewFatal(fmt.Sprintf("roll_name: %s err:empty terms", rs.RollName))
	}

	for i, t := range rs.Terms {
		if i == 0 && t.Op != "" {
			return errs.NewFatal(fmt.Sprintf("roll_name: %s err:first term must not carry op", rs.RollName))
		}
		if i > 0 {
			if _, ok := Operators[t.Op]; !ok {
				return errs.NewFatal(fmt.Sprintf("roll_name: %s err:invalid op %q at term %d", rs.RollName, t.Op, i))
			}
		}

		// 恰好擇一
		if (t.Dice == nil) == (t.Scalar == nil) {
			return errs.NewFatal(fmt.Sprintf("roll_name: %s err:term %d needs exactly one of dice/scalar", rs.RollName, i))
		}
		if t.Tag != nil && t.Dice == nil {
			return errs.NewFatal(fmt.Sprintf("roll_name: %s err:term %d tag requires dice", rs.RollName, i))
		}

		// 引擎對除/餘以零是 fatal；純量除數在這裡先擋下（spec 層是唯一能
		// 驗證輸入的呼叫端）。
		if t.Scalar != nil && *t.Scalar == 0 && (t.Op == "/" || t.Op == "%") {
			return errs.NewFatal(fmt.Sprintf("roll_name: %s err:term %d divides by zero scalar", rs.RollName, i))
		}
		if t.Dice != nil && t.Dice.Count < 0 {
			return errs.NewFatal(fmt.Sprintf("roll_name: %s err:term %d negative dice count", rs.RollName, i))
		}
	}
	return nil
}
