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
	"bytes"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/dicelab/errs"
)

// GetRollSettingByYAML
// 會讀取 YAML 設定、初始化並執行基本檢查後回傳。
//
// 採嚴格解碼（KnownFields）：多寫/拼錯欄位直接報錯，避免設定檔靜默失效。
func GetRollSettingByYAML(data []byte) (*RollSetting, error) {
	rs := &RollSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(rs); err != nil && err != io.EOF {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := rs.init(); err != nil {
		return nil, errs.Wrap(err, "roll setting initialized err")
	}
	return rs, nil
}

// GetRollSettingByJSON
// 會讀取 JSON 設定、初始化並執行基本檢查後回傳。
func GetRollSettingByJSON(data []byte) (*RollSetting, error) {
	rs := &RollSetting{}
	if err := json.Unmarshal(data, rs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := rs.init(); err != nil {
		return nil, errs.Wrap(err, "roll setting initialized err")
	}
	return rs, nil
}
