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

// Package perf 以 runtime/pprof 包住一段模擬，輸出 profile 檔。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/scratchlab/errs"
)

const DefaultDir = "build/profiling"

type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	default:
		return ModeNone, errs.NewWithExtra(errs.Warn, "unknown pprof mode", s)
	}
}

// Run 依 mode 執行 exe 並把 profile 寫進 dir/<mode>.pprof，回傳檔案路徑。
// ModeNone 只執行 exe。exe 的錯誤優先回傳。
//
//	cpu    執行期間取樣，也可拿來做 PGO
//	heap   exe 結束後 GC 一次再拍 in-use 快照
//	allocs exe 結束後寫出累積配置
func Run(exe func() error, mode Mode, dir string) (string, error) {
	if mode == ModeNone {
		return "", exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create profiling dir failed")
	}
	path := filepath.Join(dir, string(mode)+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "create profile file failed")
	}
	defer f.Close()

	switch mode {
	case ModeCPU:
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "start cpu profile failed")
		}
		err := exe()
		pprof.StopCPUProfile()
		return path, err
	case ModeHeap:
		if err := exe(); err != nil {
			return "", err
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return "", errs.Wrap(err, "write heap profile failed")
		}
		return path, nil
	case ModeAllocs:
		if err := exe(); err != nil {
			return "", err
		}
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return "", errs.Wrap(err, "write allocs profile failed")
		}
		return path, nil
	default:
		return "", errs.NewWithExtra(errs.Warn, "unknown pprof mode", string(mode))
	}
}
