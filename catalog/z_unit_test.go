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

package catalog

import (
	"errors"
	"testing"
	"testing/fstest"
)

const d6YAML = `roll_name: basic_d6
roll_id: 1
terms:
  - dice: { count: 1, sides: 6 }
`

const checkJSON = `{
	"roll_name": "check",
	"roll_id": 2,
	"terms": [
		{"dice": {"count": 1, "sides": 20}},
		{"op": "+", "scalar": 2}
	]
}`

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"basic_d6.yaml": {Data: []byte(d6YAML)},
		"check.json":    {Data: []byte(checkJSON)},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	c, err := New(newTestFS())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	err = c.Register(
		Entry{RID: 1, Name: "Basic_D6", ConfigName: "basic_d6.yaml"},
		Entry{RID: 2, Name: "check", ConfigName: "check.json"},
	)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// lookup is case / whitespace insensitive on names
	if _, ok := c.GetByName("  BASIC_d6 "); !ok {
		t.Fatalf("name lookup must normalize")
	}
	if _, ok := c.GetByID(2); !ok {
		t.Fatalf("id lookup failed")
	}
	if ids := c.IDs(); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("expected sorted ids [1 2], got %v", ids)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c, _ := New(newTestFS())
	if err := c.Register(Entry{RID: 1, Name: "a", ConfigName: "basic_d6.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(Entry{RID: 1, Name: "b", ConfigName: "check.json"}); !errors.Is(err, ErrDupID) {
		t.Fatalf("expected ErrDupID, got %v", err)
	}
	if err := c.Register(Entry{RID: 3, Name: "a", ConfigName: "check.json"}); !errors.Is(err, ErrDupName) {
		t.Fatalf("expected ErrDupName, got %v", err)
	}
	if err := c.Register(Entry{RID: 3, Name: "c", ConfigName: "basic_d6.yaml"}); err == nil {
		t.Fatalf("expected duplicate config rejection")
	}
}

func TestRegisterIsAtomicPerBatch(t *testing.T) {
	c, _ := New(newTestFS())
	err := c.Register(
		Entry{RID: 1, Name: "a", ConfigName: "basic_d6.yaml"},
		Entry{RID: 1, Name: "b", ConfigName: "check.json"}, // dup id inside batch
	)
	if err == nil {
		t.Fatalf("expected batch rejection")
	}
	if len(c.All()) != 0 {
		t.Fatalf("failed batch must leave catalog untouched, got %v", c.All())
	}
}

func TestRegisterValidatesConfigName(t *testing.T) {
	c, _ := New(newTestFS())
	bad := []string{"", "sub/dir.yaml", "trick.txt", ".yaml", "missing.yaml"}
	for _, name := range bad {
		if err := c.Register(Entry{RID: 9, Name: "x", ConfigName: name}); err == nil {
			t.Fatalf("config name %q must be rejected", name)
		}
	}
}

func TestFreezeBlocksRegistration(t *testing.T) {
	c, _ := New(newTestFS())
	c.Freeze()
	if !c.IsFrozen() {
		t.Fatalf("freeze flag not set")
	}
	if err := c.Register(Entry{RID: 1, Name: "a", ConfigName: "basic_d6.yaml"}); err == nil {
		t.Fatalf("frozen catalog must reject registration")
	}
}

func TestRollSettingLoading(t *testing.T) {
	c, _ := New(newTestFS())
	if err := c.Register(
		Entry{RID: 1, Name: "basic_d6", ConfigName: "basic_d6.yaml"},
		Entry{RID: 2, Name: "check", ConfigName: "check.json"},
	); err != nil {
		t.Fatalf("register: %v", err)
	}

	rs, err := c.RollSettingByID(1)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if rs.RollName != "basic_d6" || len(rs.Terms) != 1 {
		t.Fatalf("unexpected setting: %+v", rs)
	}

	rs, err = c.RollSettingByName("check")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if len(rs.Terms) != 2 || rs.Terms[1].Op != "+" {
		t.Fatalf("unexpected setting: %+v", rs)
	}

	if _, err := c.RollSettingByID(404); err == nil {
		t.Fatalf("unknown id must fail")
	}
}

func TestMultiFSRejectsSubdirectories(t *testing.T) {
	nested := fstest.MapFS{
		"sub/inner.yaml": {Data: []byte(d6YAML)},
	}
	if _, err := New(nested); err == nil {
		t.Fatalf("nested config FS must be rejected")
	}
}

func TestMultiFSRejectsDuplicateNamesAcrossSources(t *testing.T) {
	a := fstest.MapFS{"same.yaml": {Data: []byte(d6YAML)}}
	b := fstest.MapFS{"same.yaml": {Data: []byte(d6YAML)}}
	if _, err := New(a, b); err == nil {
		t.Fatalf("duplicate names across sources must be rejected")
	}
}

func TestMultiFSIgnoresOtherAssets(t *testing.T) {
	src := fstest.MapFS{
		"basic_d6.yaml": {Data: []byte(d6YAML)},
		"README.md":     {Data: []byte("notes")},
	}
	c, err := New(src)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	names := c.Cfg().Names()
	if len(names) != 1 || names[0] != "basic_d6.yaml" {
		t.Fatalf("expected only yaml indexed, got %v", names)
	}
}
