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

// Package spec 定義 dicelab 全域共用的基礎型別，以及擲骰設定檔（RollSetting）
// 的結構與解析。
//
// 型別寬度是合約的一部分：
//   - Value 是 int32：一個具體的結果值（骰面或運算結果），算術採 checked 語意。
//   - ConstraintID 是 uint16：一個「隨機來源」的識別子，重複引用同一來源時
//     必須保持自洽。
//   - Count 是 uint64：實現某結果的組合數。
package spec

// Value 機率分布中的一個可能狀態值。
type Value int32

// ConstraintID 識別一個可重複引用的隨機來源。
type ConstraintID uint16

// Count 實現某一結果的組合數。
type Count uint64

// RID 擲骰設定的唯一識別（roll id）。
type RID uint64
