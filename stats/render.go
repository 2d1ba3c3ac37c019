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
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// DistReportRender 定義輸出行為
type DistReportRender interface {
	Write(w io.Writer, r *DistReport) error
}

// Json渲染
type JsonDistReportRender struct{}

func (jr *JsonDistReportRender) Write(w io.Writer, r *DistReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLDistReportRender struct{}

func (yr *YAMLDistReportRender) Write(w io.Writer, r *DistReport) error {
	// 表格 Rows 是二維陣列：外層維持 block 展開，
	// 只有最內層的一維陣列輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// Text渲染（runewidth 對齊的表格）
type TextDistReportRender struct{}

func (tr *TextDistReportRender) Write(w io.Writer, r *DistReport) error {
	keys, msg := r.fmtBasic()
	if _, err := io.WriteString(w, fmtTable(r.Name, keys, msg)); err != nil {
		return err
	}
	_, err := io.WriteString(w, r.Table.String())
	return err
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 內部沒有子 sequence → 最內層的一維 => flow style: [...]
	// - 內部有子 sequence → 外層維度 => 保持預設 block（展開）
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c.Kind == yaml.SequenceNode {
				hasChildSeq = true
			}
			styleReadableSequences(c)
		}
		if hasChildSeq {
			n.Style = 0
		} else {
			n.Style = yaml.FlowStyle
		}
	}
}
