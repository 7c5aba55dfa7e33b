package main

import (
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/configs"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	id        spec.CID
	name      string
	mode      string
	rounds    int
	worker    int
	coin      int
	seed      int64
	out       string
	dir       string
	pprofmode string
	pprofdir  string
}

type cidFlag struct{ p *spec.CID }

func (f cidFlag) String() string {
	if f.p == nil {
		return "1"
	}
	return fmt.Sprint(uint(*f.p))
}

func (f cidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.CID(uint(u))
	return nil
}

func bindVar() {
	cfg.id = 1
	flag.Var(cidFlag{&cfg.id}, "card", "target card id")
	flag.StringVar(&cfg.name, "name", "", "target card name (overrides -card)")
	flag.StringVar(&cfg.mode, "mode", "draw", "draw: prize draws only | scratch: play whole cards")
	flag.IntVar(&cfg.rounds, "rounds", 10_000_000, "draws (or cards) per worker")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.coin, "coin", -1, "coin index for scratch mode (-1: card default)")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.out, "out", "text", "report format: text | json | yaml")
	flag.StringVar(&cfg.dir, "configs", "", "extra flat directory of card configs")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	flag.StringVar(&cfg.pprofdir, "pdir", "", "pprof output dir")

	flag.Parse()

	// seed < 0 -> crypto seed
	if cfg.seed < 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			log.Fatal(err)
		}
		cfg.seed = int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
	}
}

func (cfg *config) valid() error {
	if cfg.worker < 1 {
		return errs.NewWarn("workers must > 0")
	}
	if cfg.rounds < 1 {
		return errs.NewWarn("rounds must > 0")
	}
	switch cfg.mode {
	case "draw", "scratch":
	default:
		return errs.Warnf("unknown mode %q", cfg.mode)
	}
	switch cfg.out {
	case "text", "json", "yaml":
	default:
		return errs.Warnf("unknown output format %q", cfg.out)
	}
	return nil
}

func executeSimulator() error {
	if err := cfg.valid(); err != nil {
		return err
	}
	srcs := []fs.FS{configs.FS}
	if cfg.dir != "" {
		srcs = append(srcs, os.DirFS(cfg.dir))
	}
	lab, err := scratchlab.New(core.Default(), srcs)
	if err != nil {
		return err
	}
	if cfg.name != "" {
		if cfg.id, err = lab.Resolve(cfg.name); err != nil {
			return err
		}
	}
	s, err := lab.NewSimulatorWithSeed(cfg.id, cfg.seed)
	if err != nil {
		return err
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	showpb := cfg.out == "text"

	switch cfg.mode {
	case "scratch":
		coin := cfg.coin
		if coin < 0 {
			cs, err := lab.Setting(cfg.id)
			if err != nil {
				return err
			}
			coin = cs.DefaultCoin
		}
		// 整張卡的刮除遠比抽獎慢
		cards := min(cfg.rounds, 100_000)
		if showpb {
			p.Fprintf(os.Stderr, "%s[WORKERS:%d] [CARD:%s] [COIN:%d] [CARDS:%d] [SEED:%d]%s\n", green, cfg.worker, s.CardName, coin, cards*cfg.worker, cfg.seed, reset)
		}
		st, used, err := s.SimScratch(coin, cards, cfg.worker, showpb)
		if err != nil {
			return err
		}
		if cfg.out != "text" {
			rep, err := stats.RenderFor[stats.ScratchReport](cfg.out)
			if err != nil {
				return err
			}
			return st.WriteWith(os.Stdout, rep)
		}
		st.StdOut(used)
	default:
		if showpb {
			p.Fprintf(os.Stderr, "%s[WORKERS:%d] [CARD:%s] [DRAWS:%d] [SEED:%d]%s\n", green, cfg.worker, s.CardName, cfg.rounds*cfg.worker, cfg.seed, reset)
		}
		var (
			st   *stats.DrawReport
			used time.Duration
		)
		if cfg.worker == 1 {
			st, used, err = s.Sim(cfg.rounds, showpb)
		} else {
			st, used, err = s.SimMP(cfg.rounds, cfg.worker, showpb)
		}
		if err != nil {
			return err
		}
		if cfg.out != "text" {
			rep, err := stats.RenderFor[stats.DrawReport](cfg.out)
			if err != nil {
				return err
			}
			return st.WriteWith(os.Stdout, rep)
		}
		st.StdOut(used)
	}
	return nil
}
