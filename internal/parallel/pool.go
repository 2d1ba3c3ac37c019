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

// Package parallel 提供內部使用的有界 worker pool。
//
// 引擎的 cross product 逐對剪枝與累加都是結合且與順序無關的，
// 所以把 pair 工作切片丟進 pool、再合併部分累加器，是純加法的優化，
// 不改變任何正確性。
package parallel

import (
	"runtime"
	"sync"
)

// Pool 固定數量 goroutine 的工作池，帶緩衝 channel 做 backpressure。
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// New 建立 workers 個 worker 的 Pool；workers <= 0 時取 CPU 核心數。
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks: make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit 送入一個工作；隊列滿時阻塞（backpressure）。
// Close 之後不可再 Submit。
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Close 關閉收件並等待所有已送入的工作完成。只會生效一次。
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
