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

// Package catalog 是刮刮卡種類的目錄：卡片編號、名稱與設定檔名的對照表。
//
// 設定內容一律由 fs.FS 提供；目錄只記檔名，需要時才讀檔解析成 *spec.CardSetting。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate card id")
	ErrDupName = errs.NewFatal("duplicate card name")
)

type Entry struct {
	CID        spec.CID
	Name       string
	ConfigName string
}

// Summary 卡片清單（對外展示用）
type Summary struct {
	CID            spec.CID `json:"card_id"`
	Name           string   `json:"card_name"`
	Prizes         int      `json:"prizes"`
	Coins          []string `json:"coins"`
	DefaultCoin    int      `json:"default_coin"`
	ExpectedAmount float64  `json:"expected_amount"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
}

// NewSummary 由設定產生 Summary
func NewSummary(cs *spec.CardSetting) Summary {
	coins := make([]string, len(cs.Coins))
	for i, c := range cs.Coins {
		coins[i] = c.Name
	}
	return Summary{
		CID:            cs.CardID,
		Name:           cs.CardName,
		Prizes:         len(cs.Prizes),
		Coins:          coins,
		DefaultCoin:    cs.DefaultCoin,
		ExpectedAmount: cs.ExpectedAmount(),
		Width:          cs.Width,
		Height:         cs.Height,
	}
}

type Catalog struct {
	byID   map[spec.CID]Entry
	byName map[string]Entry
	ids    []spec.CID          // 穩定排序
	unique map[string]struct{} // 一個設定檔只能對應一張卡
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	mfs, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.CID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]spec.CID, 0, 16),
		unique: map[string]struct{}{},
		config: mfs,
	}, nil
}

// Register 批次註冊；任何一筆不合法則整批不寫入
func (c *Catalog) Register(ents ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[spec.CID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range ents {
		ents[i].Name = normName(ents[i].Name)
		e := ents[i]
		if e.Name == "" {
			return errs.NewFatal("card name required")
		}
		if err := validFileName(e.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[e.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", e.ConfigName))
		}
		if _, ok := c.byID[e.CID]; ok {
			return ErrDupID
		}
		if _, ok := seenID[e.CID]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[e.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenName[e.Name]; ok {
			return ErrDupName
		}
		_, used := c.unique[e.ConfigName]
		if _, dup := seenCfg[e.ConfigName]; used || dup {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", e.ConfigName))
		}
		seenID[e.CID] = struct{}{}
		seenName[e.Name] = struct{}{}
		seenCfg[e.ConfigName] = struct{}{}
	}
	for _, e := range ents {
		c.unique[e.ConfigName] = struct{}{}
		c.byID[e.CID] = e
		c.byName[e.Name] = e
		c.ids = append(c.ids, e.CID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return nil
}

// Discover 掃描所有設定來源，用檔案內宣告的 card_id / card_name 一次註冊。
// 依檔名排序處理；任一檔案讀取、解析或檢查失敗立即回傳，不會留下半套目錄。
func (c *Catalog) Discover() error {
	names := c.config.Names()
	if len(names) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	ents := make([]Entry, 0, len(names))
	for _, name := range names {
		cs, err := c.parse(name)
		if err != nil {
			return errs.WrapWithExtra(err, "discover card setting failed", name)
		}
		ents = append(ents, Entry{CID: cs.CardID, Name: cs.CardName, ConfigName: name})
	}
	return c.Register(ents...)
}

func (c *Catalog) GetByID(id spec.CID) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.byName[normName(name)]
	return e, ok
}

func (c *Catalog) IDs() []spec.CID {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]spec.CID(nil), c.ids...)
}

func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

// SettingByID 讀取並解析設定
func (c *Catalog) SettingByID(id spec.CID) (*spec.CardSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "card id does not exist in catalog", fmt.Sprintf("card_id=%d", id))
	}
	return c.parse(e.ConfigName)
}

// SettingByName 讀取並解析設定（名稱不分大小寫）
func (c *Catalog) SettingByName(name string) (*spec.CardSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "card name does not exist in catalog", "card_name="+name)
	}
	return c.parse(e.ConfigName)
}

func (c *Catalog) parse(name string) (*spec.CardSetting, error) {
	src, ok := c.config.GetFS(name)
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "config file does not exist in catalog", name)
	}
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return spec.GetCardSettingByYAML(raw)
	case ".json":
		return spec.GetCardSettingByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", name))
	}
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isConfigExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename)", file))
	}
	if !isConfigExt(file) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}
