package main

import "github.com/zintix-labs/dicelab/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeEval, cfg.pprofmode)
}
