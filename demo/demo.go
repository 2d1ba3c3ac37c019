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

// Package demo 提供可直接執行的內建設定，作為 CLI / server 的最短啟動路徑。
package demo

import (
	"github.com/zintix-labs/dicelab"
	"github.com/zintix-labs/dicelab/catalog"
	"github.com/zintix-labs/dicelab/demo/demo_configs"
	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/server/logger"
	"github.com/zintix-labs/dicelab/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_configs.FS)
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := dicelab.NewAuto(dicelab.Configs(demo_configs.FS))
	if err != nil {
		return nil, errs.NewFatal("new dicelab failed:" + err.Error())
	}
	log, _ := logger.NewAsync(1024, logger.ModeDev)
	scfg := &svrcfg.SvrCfg{
		Log:     log,
		Workers: 1,
		Lab:     lab,
	}
	return scfg, nil
}

func NewDicelab() (*dicelab.Dicelab, error) {
	return dicelab.NewAuto(dicelab.Configs(demo_configs.FS))
}
