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

// Package dicelab 提供精確骰子機率引擎的「組裝入口（assembler）」與
// 「運行入口（runtime entry）」。
//
// 引擎核心在 sdk/ 下：
//  1. sdk/cons：約束代數（Constraint / Map），解決「同一顆骰子被引用兩次」
//     的自洽性問題。
//  2. sdk/ops：checked 二元運算子（溢位/除零是 fatal）。
//  3. sdk/prob：Outcome 與 Distribution，cross product + 剪枝 + 計數合併。
//
// Dicelab 本身負責把設定檔（fs.FS 注入，不綁路徑）組成 Catalog（SSOT），
// 並把一份 RollSetting 編譯成 *prob.Distribution。運算過程是純函數式的
// 精確列舉，不做任何抽樣。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Dicelab 依名稱評估分布並回傳統計報告。
//   - CLI：讀取設定檔目錄，評估後在終端輸出表格。
package dicelab

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/dicelab/catalog"
	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/spec"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 可以用 go:embed 把 configs 直接編進 binary（部署最穩定）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Dicelab 是組裝器與運行入口：持有 Catalog（你要算哪一批 roll、哪一套設定檔）。
//
// 使用流程分成兩階段：
//   - 註冊/組裝階段：建立 catalog、檢查重複與缺漏。
//   - 執行階段：依名稱/ID 取出 RollSetting 並評估成 Distribution。
//
// Catalog 的 ID 唯一性只保證在同一個 Dicelab instance 內。
type Dicelab struct {
	cat *catalog.Catalog
	sum []catalog.Summary
}

// New 建立一個 Dicelab instance（組裝階段入口）。
//
// cfgs 至少一個：沒有設定檔來源，Catalog 無法解析 RollSetting。
func New(cfgs []fs.FS) (*Dicelab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Dicelab{cat: cata}, nil
}

// NewAuto 建立一個直接進入執行階段的 Dicelab instance：
// 掃描全部設定檔、批次註冊並凍結 catalog。
func NewAuto(cfgs []fs.FS) (*Dicelab, error) {
	lab, err := New(cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (dl *Dicelab) Register(ents ...catalog.Entry) error {
	return dl.cat.Register(ents...)
}

// RegisterAll
//
// 會掃描 catalog 持有的設定檔來源（fs.FS），把所有可辨識的設定檔
// （.yaml/.yml/.json）解析成 *spec.RollSetting，並用設定檔內宣告的
// RollID/RollName 產生對應的 catalog.Entry 批次註冊。
//
// 行為特性：
//  1. Fail-fast：任何一個檔案讀取/解析/基本檢查失敗，立刻回傳 error。
//  2. 原子性：全部檔案都成功解析才一次性 Register(...)，
//     不會出現只註冊一半的 catalog。
//  3. 穩定性：依檔名排序後處理，行為 deterministic。
func (dl *Dicelab) RegisterAll() error {
	sources := dl.cat.Cfg().Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 64)
	seenID := map[spec.RID]string{}
	seenName := map[string]string{}

	for _, src := range sources {
		names := make([]string, 0, 64)
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("configs must be flat (no subdir): %q", path))
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}
			names = append(names, base)
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
		sort.Strings(names)

		for _, base := range names {
			raw, rerr := fs.ReadFile(src, base)
			if rerr != nil {
				return errs.NewFatal(fmt.Sprintf("read config failed: %s", base))
			}

			var (
				rs   *spec.RollSetting
				perr error
			)
			switch strings.ToLower(filepath.Ext(base)) {
			case ".yaml", ".yml":
				rs, perr = spec.GetRollSettingByYAML(raw)
			case ".json":
				rs, perr = spec.GetRollSettingByJSON(raw)
			}
			if perr != nil {
				return errs.Wrap(perr, fmt.Sprintf("parse rollsetting failed: %s", base))
			}

			name := strings.TrimSpace(rs.RollName)
			if name == "" {
				return errs.NewFatal(fmt.Sprintf("roll name required: %s", base))
			}

			id := rs.RollID
			if prev, ok := seenID[id]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate roll id: %d (config=%s and %s)", id, prev, base))
			}
			if _, ok := dl.cat.GetByID(id); ok {
				return errs.NewFatal(fmt.Sprintf("roll id already registered: %d (config=%s)", id, base))
			}
			seenID[id] = base

			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate roll name: %s (config=%s and %s)", nameKey, prev, base))
			}
			if _, ok := dl.cat.GetByName(name); ok {
				return errs.NewFatal(fmt.Sprintf("roll name already registered: %s (config=%s)", name, base))
			}
			seenName[nameKey] = base

			entries = append(entries, catalog.Entry{
				RID:        id,
				Name:       name,
				ConfigName: base,
			})
			dl.sum = append(dl.sum, catalog.Summary{
				RID:   id,
				Name:  nameKey,
				Terms: len(rs.Terms),
			})
		}
	}
	return dl.cat.Register(entries...)
}

// Freeze 凍結 catalog：執行階段開始後不再允許變更登記內容。
func (dl *Dicelab) Freeze() {
	dl.cat.Freeze()
}

// Summaries 回傳目錄摘要（RegisterAll 時建立）。
func (dl *Dicelab) Summaries() []catalog.Summary {
	return append([]catalog.Summary(nil), dl.sum...)
}

// EntryById 查詢登記資訊。
func (dl *Dicelab) EntryById(id spec.RID) (catalog.Entry, bool) {
	return dl.cat.GetByID(id)
}

// EntryByName 查詢登記資訊。
func (dl *Dicelab) EntryByName(name string) (catalog.Entry, bool) {
	return dl.cat.GetByName(name)
}
