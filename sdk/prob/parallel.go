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

package prob

import (
	"runtime"
	"sync"

	"github.com/zintix-labs/dicelab/internal/parallel"
	"github.com/zintix-labs/dicelab/sdk/ops"
)

// combineParallelThreshold 低於這個 pair 數直接走循序路徑，省掉排程成本。
const combineParallelThreshold = 1 << 12

// CombineParallel 與 Combine 語意完全相同的分片平行版本。
//
// 把 d 的 Outcome 切成 shard，每個 shard 在自己的部分累加器上跑
// cross product（逐對剪枝 + 累加都是結合運算），最後單執行緒合併。
// 值運算的 fatal panic 會被帶回呼叫端的 goroutine 重新拋出，
// 維持「第一個出事的 pair 直接中止」的語意。
func (d *Distribution) CombineParallel(other *Distribution, op ops.BinaryOp, workers int) *Distribution {
	if len(d.counts)*len(other.counts) < combineParallelThreshold {
		return d.Combine(other, op)
	}

	left := d.Outcomes()
	right := other.Outcomes()

	// 正規化要在建 pool 與算 shard 之前：pool 大小和分片數必須一致，
	// 否則 workers <= 0 會開滿 CPU 的 pool 卻只切出一片。
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := parallel.New(workers)
	shardLen := (len(left) + workers - 1) / workers

	partials := make([]map[string]OutcomeCount, 0, workers)
	var mu sync.Mutex
	var fault any

	for lo := 0; lo < len(left); lo += shardLen {
		hi := min(lo+shardLen, len(left))
		shard := left[lo:hi]
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if fault == nil {
						fault = r
					}
					mu.Unlock()
				}
			}()
			acc := make(map[string]OutcomeCount, len(shard))
			for _, a := range shard {
				for _, b := range right {
					no := a.Outcome.Combine(b.Outcome, op)
					if !no.Constraints.TheoreticallyPossible() {
						continue
					}
					accumulate(acc, no, a.Count*b.Count)
				}
			}
			mu.Lock()
			partials = append(partials, acc)
			mu.Unlock()
		})
	}
	pool.Close()

	if fault != nil {
		panic(fault)
	}

	merged := make(map[string]OutcomeCount, len(d.counts))
	for _, acc := range partials {
		for k, oc := range acc {
			if cur, ok := merged[k]; ok {
				cur.Count += oc.Count
				merged[k] = cur
			} else {
				merged[k] = oc
			}
		}
	}
	return &Distribution{counts: merged}
}
