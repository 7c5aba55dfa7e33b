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

	"github.com/zintix-labs/scratchlab/configs"
	"github.com/zintix-labs/scratchlab/errs"
)

const miniYAML = `
card_name: Mini
card_id: 7
prizes:
  - { amount: 0, weight: 3, message: "none" }
  - { amount: 50, weight: 1, message: "fifty" }
coins:
  - { name: "c", icon: "c", radius: 5, display_size: 10 }
`

const miniJSON = `{"card_name":"jay","card_id":2,"prizes":[{"amount":1,"weight":1,"message":"m"}],"coins":[{"name":"c","icon":"c","radius":3,"display_size":8}]}`

func TestDiscoverEmbedded(t *testing.T) {
	c, err := New(configs.FS)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Discover(); err != nil {
		t.Fatalf("discover: %v", err)
	}
	cs, err := c.SettingByName(" CLASSIC ")
	if err != nil {
		t.Fatalf("by name: %v", err)
	}
	if cs.CardID != 1 || len(cs.Prizes) != 13 || len(cs.Coins) != 4 {
		t.Fatalf("unexpected classic card: %+v", cs)
	}
	if cs.TotalWeight() != 100 {
		t.Fatalf("classic weights should sum to 100, got %v", cs.TotalWeight())
	}
}

func TestDiscoverMultiFS(t *testing.T) {
	a := fstest.MapFS{"mini.yaml": {Data: []byte(miniYAML)}, "readme.txt": {Data: []byte("skip")}}
	b := fstest.MapFS{"jay.json": {Data: []byte(miniJSON)}}
	c, err := New(a, b)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Discover(); err != nil {
		t.Fatalf("discover: %v", err)
	}
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 7 {
		t.Fatalf("expected sorted ids [2 7], got %v", ids)
	}
	if e, ok := c.GetByName("mini"); !ok || e.ConfigName != "mini.yaml" {
		t.Fatalf("name lookup failed: %+v", e)
	}
	if len(c.All()) != 2 {
		t.Fatalf("expected 2 entries")
	}
}

func TestNotFound(t *testing.T) {
	c, _ := New(fstest.MapFS{"mini.yaml": {Data: []byte(miniYAML)}})
	if err := c.Discover(); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if _, err := c.SettingByID(99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.SettingByName("nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejects(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without fs")
	}
	if _, err := New(fstest.MapFS{"sub/mini.yaml": {Data: []byte(miniYAML)}}); err == nil {
		t.Fatalf("expected error for nested dir")
	}
	if _, err := New(fstest.MapFS{"a.yaml": {Data: []byte(miniYAML)}}, fstest.MapFS{"a.yaml": {Data: []byte(miniYAML)}}); err == nil {
		t.Fatalf("expected error for duplicate file across fs")
	}

	dup, _ := New(fstest.MapFS{"a.yaml": {Data: []byte(miniYAML)}, "b.yaml": {Data: []byte(miniYAML)}})
	if err := dup.Discover(); !errors.Is(err, ErrDupID) {
		t.Fatalf("expected ErrDupID, got %v", err)
	}
	if len(dup.IDs()) != 0 {
		t.Fatalf("failed discover must not register anything")
	}

	bad, _ := New(fstest.MapFS{"bad.yaml": {Data: []byte("card_name: x\n")}})
	if err := bad.Discover(); err == nil {
		t.Fatalf("expected parse error")
	}

	empty, _ := New(fstest.MapFS{"readme.md": {Data: []byte("x")}})
	if err := empty.Discover(); err == nil {
		t.Fatalf("expected error when no configs")
	}
}

func TestRegisterFrozen(t *testing.T) {
	c, _ := New(fstest.MapFS{"mini.yaml": {Data: []byte(miniYAML)}})
	c.Freeze()
	if err := c.Register(Entry{CID: 1, Name: "x", ConfigName: "mini.yaml"}); err == nil {
		t.Fatalf("expected error after freeze")
	}
	if !c.IsFrozen() {
		t.Fatalf("expected frozen")
	}
}

func TestRegisterValidation(t *testing.T) {
	c, _ := New(fstest.MapFS{"mini.yaml": {Data: []byte(miniYAML)}})
	cases := []Entry{
		{CID: 1, Name: "", ConfigName: "mini.yaml"},
		{CID: 1, Name: "x", ConfigName: "../mini.yaml"},
		{CID: 1, Name: "x", ConfigName: "mini.txt"},
		{CID: 1, Name: "x", ConfigName: "missing.yaml"},
	}
	for _, e := range cases {
		if err := c.Register(e); err == nil {
			t.Fatalf("expected error for %+v", e)
		}
	}
	if err := c.Register(Entry{CID: 1, Name: "X", ConfigName: "mini.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(Entry{CID: 2, Name: "x", ConfigName: "mini.yaml"}); !errors.Is(err, ErrDupName) {
		t.Fatalf("expected ErrDupName, got %v", err)
	}
}
