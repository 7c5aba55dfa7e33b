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

// Package scratchlab 提供刮刮卡引擎的組裝入口與運行入口。
//
// Lab 把兩個地基組在一起：
//  1. Catalog：有哪些卡、各自對應哪個設定檔（設定來源一律是 fs.FS）。
//  2. PRNGFactory：亂數核心工廠，同一個 seed 抽出同一串獎項。
//
// 由 Lab 建出的 Game 是對外的最小單位：一位玩家、一張卡、一台狀態機。
// 後端服務透過 Runtime 管理多個 Game；模擬器透過 Simulator 大量抽獎與試刮。
package scratchlab

import (
	"crypto/rand"
	"io/fs"
	"math"
	"math/big"

	"github.com/zintix-labs/scratchlab/catalog"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
)

// Configs 把一或多個設定來源打包成 New() 需要的參數
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 組裝器
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	sum []catalog.Summary
}

// New 建立 Lab：掃描所有設定來源、註冊後凍結目錄。
//
// 任一設定檔讀取或解析失敗都會直接回傳錯誤，不會留下半套目錄。
func New(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	if err := cat.Discover(); err != nil {
		return nil, err
	}
	cat.Freeze()
	return &Lab{cat: cat, cf: cf}, nil
}

func (l *Lab) IDs() []spec.CID {
	return l.cat.IDs()
}

// Setting 依卡片編號取得設定
func (l *Lab) Setting(id spec.CID) (*spec.CardSetting, error) {
	return l.cat.SettingByID(id)
}

// Resolve 由名稱找卡片編號（不分大小寫）
func (l *Lab) Resolve(name string) (spec.CID, error) {
	e, ok := l.cat.GetByName(name)
	if !ok {
		return 0, errs.WrapWithExtra(errs.ErrNotFound, "card name does not exist in catalog", "card_name="+name)
	}
	return e.CID, nil
}

// Summary 卡片清單；結果只計算一次
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if l.sum != nil {
		return l.sum, nil
	}
	ids := l.cat.IDs()
	out := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		cs, err := l.cat.SettingByID(id)
		if err != nil {
			return nil, errs.Wrap(err, "parse card setting failed")
		}
		out = append(out, catalog.NewSummary(cs))
	}
	l.sum = out
	return l.sum, nil
}

// NewGame 以 crypto/rand 產生的 seed 建立一張卡
func (l *Lab) NewGame(id spec.CID, geom Geometry) (*Game, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewGameWithSeed(id, seed, geom)
}

// NewGameWithSeed 同一份設定 + 同一個 seed，抽出的獎項序列相同
func (l *Lab) NewGameWithSeed(id spec.CID, seed int64, geom Geometry) (*Game, error) {
	cs, err := l.cat.SettingByID(id)
	if err != nil {
		return nil, err
	}
	return newGame(cs, l.cf, seed, geom)
}

func (l *Lab) NewSimulator(id spec.CID) (*Simulator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorWithSeed(id, seed)
}

func (l *Lab) NewSimulatorWithSeed(id spec.CID, seed int64) (*Simulator, error) {
	cs, err := l.cat.SettingByID(id)
	if err != nil {
		return nil, err
	}
	return newSimulator(cs, l.cf, seed)
}

// NewSimulatorByYAML 以外部傳入的設定模擬（例如調整權重後試算）；
// 卡片編號與名稱必須已存在於目錄且互相對應。
func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	cs, err := spec.GetCardSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if err := l.validCfg(cs); err != nil {
		return nil, err
	}
	return newSimulator(cs, l.cf, seed)
}

func (l *Lab) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	cs, err := spec.GetCardSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := l.validCfg(cs); err != nil {
		return nil, err
	}
	return newSimulator(cs, l.cf, seed)
}

func (l *Lab) validCfg(cs *spec.CardSetting) error {
	byID, ok := l.cat.GetByID(cs.CardID)
	if !ok {
		return errs.NewWarn("card id not exist")
	}
	byName, ok := l.cat.GetByName(cs.CardName)
	if !ok {
		return errs.NewWarn("card name not exist")
	}
	if byID.CID != byName.CID {
		return errs.NewWarn("card id is not matched card name")
	}
	return nil
}

// BuildRuntime 建立可對外服務的 Runtime；maxGames <= 0 表示不限
func (l *Lab) BuildRuntime(maxGames int) (*Runtime, error) {
	if len(l.cat.IDs()) == 0 {
		return nil, errs.NewFatal("no cards registered")
	}
	return newRuntime(l, maxGames), nil
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return seed.Int64(), nil
}
