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
	"strings"
	"testing"
)

const validYAML = `
roll_name: attack_roll
roll_id: 9
terms:
  - dice: { count: 1, sides: 20 }
  - op: "+"
    scalar: 4
  - op: "-"
    dice: { count: 2, sides: 4 }
    tag: 3
`

func TestGetRollSettingByYAML(t *testing.T) {
	rs, err := GetRollSettingByYAML([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rs.RollName != "attack_roll" || rs.RollID != 9 {
		t.Fatalf("unexpected header: %+v", rs)
	}
	if len(rs.Terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(rs.Terms))
	}
	if rs.Terms[2].Tag == nil || *rs.Terms[2].Tag != 3 {
		t.Fatalf("tag not decoded: %+v", rs.Terms[2])
	}
}

func TestYAMLStrictDecodeRejectsUnknownField(t *testing.T) {
	bad := strings.Replace(validYAML, "roll_id:", "roll_idd:", 1)
	if _, err := GetRollSettingByYAML([]byte(bad)); err == nil {
		t.Fatalf("expected strict decode to reject unknown field")
	}
}

func TestGetRollSettingByJSON(t *testing.T) {
	js := `{
		"roll_name": "sneak",
		"roll_id": 2,
		"terms": [
			{"dice": {"count": 3, "sides": 6}},
			{"op": "*", "scalar": 2}
		]
	}`
	rs, err := GetRollSettingByJSON([]byte(js))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rs.Terms[1].Op != "*" {
		t.Fatalf("unexpected op: %q", rs.Terms[1].Op)
	}
}

func TestValidRejectsBrokenSettings(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty name", `
roll_name: ""
roll_id: 1
terms:
  - dice: { count: 1, sides: 6 }
`},
		{"no terms", `
roll_name: x
roll_id: 1
terms: []
`},
		{"first term with op", `
roll_name: x
roll_id: 1
terms:
  - op: "+"
    dice: { count: 1, sides: 6 }
`},
		{"missing op on later term", `
roll_name: x
roll_id: 1
terms:
  - dice: { count: 1, sides: 6 }
  - scalar: 2
`},
		{"unknown operator", `
roll_name: x
roll_id: 1
terms:
  - dice: { count: 1, sides: 6 }
  - op: "**"
    scalar: 2
`},
		{"dice and scalar together", `
roll_name: x
roll_id: 1
terms:
  - dice: { count: 1, sides: 6 }
    scalar: 2
`},
		{"neither dice nor scalar", `
roll_name: x
roll_id: 1
terms:
  - tag: 1
`},
		{"tag on scalar", `
roll_name: x
roll_id: 1
terms:
  - scalar: 2
    tag: 1
`},
		{"zero scalar divisor", `
roll_name: x
roll_id: 1
terms:
  - dice: { count: 1, sides: 6 }
  - op: "/"
    scalar: 0
`},
		{"negative dice count", `
roll_name: x
roll_id: 1
terms:
  - dice: { count: -2, sides: 6 }
`},
	}
	for _, c := range cases {
		if _, err := GetRollSettingByYAML([]byte(c.yaml)); err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
	}
}
