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

package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/configs"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/server"
	"github.com/zintix-labs/scratchlab/server/logger"
	"github.com/zintix-labs/scratchlab/server/svrcfg"
)

// 環境變數（SCRATCH_ 前綴）提供預設，命令列旗標覆寫
func main() {
	sCfg, closeLog, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	err = server.Run(sCfg)
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

type config struct {
	Addr           string        `envconfig:"ADDR" default:":5809"`
	LogMode        string        `envconfig:"LOG_MODE" default:"dev"`
	LogBuf         int           `envconfig:"LOG_BUF" default:"4096"`
	MaxGames       int           `envconfig:"MAX_GAMES" default:"10000"`
	ConfigDir      string        `envconfig:"CONFIG_DIR"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS"`
	SimTimeout     time.Duration `envconfig:"SIM_TIMEOUT" default:"30s"`
}

func loadConfig(args []string) (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	if err := envconfig.Process("scratch", cfg); err != nil {
		return nil, nil, err
	}

	fset := flag.NewFlagSet("svr", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fset.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "log mode: dev|prod|silence")
	fset.IntVar(&cfg.MaxGames, "max-games", cfg.MaxGames, "max live games")
	fset.StringVar(&cfg.ConfigDir, "configs", cfg.ConfigDir, "extra flat directory of card configs")
	fset.DurationVar(&cfg.SimTimeout, "sim-timeout", cfg.SimTimeout, "timeout for /v1/sim requests")
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(cfg.LogBuf, mode)

	srcs := []fs.FS{configs.FS}
	if cfg.ConfigDir != "" {
		srcs = append(srcs, os.DirFS(cfg.ConfigDir))
	}
	lab, err := scratchlab.New(core.Default(), srcs)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Addr:           cfg.Addr,
		Log:            log,
		MaxGames:       cfg.MaxGames,
		AllowedOrigins: cfg.AllowedOrigins,
		SimTimeout:     cfg.SimTimeout,
		Lab:            lab,
	}
	return sCfg, ah.Close, nil
}
