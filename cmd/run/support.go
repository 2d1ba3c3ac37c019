package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/dicelab"
	"github.com/zintix-labs/dicelab/demo/demo_configs"
	"github.com/zintix-labs/dicelab/spec"
	"github.com/zintix-labs/dicelab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.RID
	dir       string
	worker    int
	format    string
	pprofmode string
}

type ridFlag struct{ p *spec.RID }

func (f ridFlag) String() string { return fmt.Sprint(uint64(*f.p)) }
func (f ridFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f.p = spec.RID(u)
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.name, "roll", "", "target roll name")
	flag.Var(ridFlag{&cfg.id}, "rid", "target roll id")
	flag.StringVar(&cfg.dir, "dir", "", "config dir; empty uses built-in demo configs")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers for cross-product sharding")
	flag.StringVar(&cfg.format, "o", "text", "output: text, json, yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

// 這裡解析設定來源並執行精確評估
func executeEval() {
	cfg.valid() // 基本檢查

	var src fs.FS = demo_configs.FS
	if cfg.dir != "" {
		src = os.DirFS(cfg.dir)
	}
	lab, err := dicelab.NewAuto(dicelab.Configs(src))
	if err != nil {
		log.Fatal(err)
	}

	// rid 優先，其次 roll name；都未給則列出可用的 roll
	name := cfg.name
	if cfg.id != 0 {
		ent, ok := lab.EntryById(cfg.id)
		if !ok {
			log.Fatalf("rid not found: %d", cfg.id)
		}
		name = ent.Name
	}
	if name == "" {
		fmt.Println("available rolls:")
		for _, s := range lab.Summaries() {
			fmt.Printf("  [%d] %s (%d terms)\n", s.RID, s.Name, s.Terms)
		}
		return
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[ROLL:%s] [WORKERS:%d]%s\n", green, name, cfg.worker, reset)

	bar := pb.New(1)
	opts := dicelab.EvalOpts{
		Workers: cfg.worker,
		Progress: func(done, total int) {
			bar.SetTotal(int64(total))
			bar.SetCurrent(int64(done))
		},
	}
	bar.Start()
	d, err := lab.EvalWith(name, opts)
	bar.Finish()
	if err != nil {
		log.Fatal(err)
	}

	r := stats.NewDistReport(name, d)
	switch cfg.format {
	case "json":
		if err := r.WriteWith(os.Stdout, &stats.JsonDistReportRender{}); err != nil {
			log.Fatal(err)
		}
	case "yaml":
		if err := r.WriteWith(os.Stdout, &stats.YAMLDistReportRender{}); err != nil {
			log.Fatal(err)
		}
	default:
		r.StdOut()
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	// 協程太多 resize
	if cfg.worker > 1024 {
		p.Printf("too much workers: %d resized to 1,024\n", cfg.worker)
		cfg.worker = 1024
	}

	switch cfg.format {
	case "text", "json", "yaml":
	default:
		log.Fatalf("value err : unknown output format %q", cfg.format)
	}
}
