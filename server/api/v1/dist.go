package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/dicelab"
	"github.com/zintix-labs/dicelab/errs"
	"github.com/zintix-labs/dicelab/server/httperr"
	"github.com/zintix-labs/dicelab/server/svrcfg"
	"github.com/zintix-labs/dicelab/spec"
	"github.com/zintix-labs/dicelab/stats"
)

type DistHandler struct {
	Lab *dicelab.Dicelab
	// Workers 是平行評估的上限，由 SvrCfg 裁剪過。
	Workers int
}

func NewDistHandler(sCfg *svrcfg.SvrCfg) (*DistHandler, error) {
	if sCfg == nil || sCfg.Lab == nil {
		return nil, errs.NewFatal("dicelab is required")
	}
	return &DistHandler{Lab: sCfg.Lab, Workers: sCfg.Workers}, nil
}

// Rolls 列出 catalog 中所有已註冊的 roll 摘要。
func (dh *DistHandler) Rolls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dh.Lab.Summaries())
}

// Dist 評估 catalog 中的 roll，回傳完整分布報表。
func (dh *DistHandler) Dist(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type DistRequestBody struct {
		RID      *spec.RID `json:"rid,omitempty"`
		Name     string    `json:"name,omitempty"`
		Parallel bool      `json:"parallel"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type DistResponse struct {
		Report   *stats.DistReport `json:"report"`
		UsedTime int64             `json:"used_ms"`
	}
	// ---
	req := new(DistRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// rid
		if s := q.URL.Query().Get("rid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("rid must be non-negative integer"))
				return
			}
			v := spec.RID(u)
			req.RID = &v
		}

		// name
		req.Name = q.URL.Query().Get("name")

		// parallel
		if p := q.URL.Query().Get("parallel"); p != "" {
			b, err := strconv.ParseBool(p)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("parallel must be boolean"))
				return
			}
			req.Parallel = b
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗：rid 優先，其次 name
	var name string
	switch {
	case req.RID != nil:
		e, found := dh.Lab.EntryById(*req.RID)
		if !found {
			httperr.Errs(w, errs.NewWarn("rid not found"))
			return
		}
		name = e.Name
	case req.Name != "":
		e, found := dh.Lab.EntryByName(req.Name)
		if !found {
			httperr.Errs(w, errs.NewWarn("name not found"))
			return
		}
		name = e.Name
	default:
		httperr.Errs(w, errs.NewWarn("rid or name is required"))
		return
	}

	opts := dicelab.EvalOpts{}
	if req.Parallel {
		opts.Workers = dh.Workers
	}

	start := time.Now()
	d, err := dh.Lab.EvalWith(name, opts)
	if err != nil {
		// 這裡的錯誤來自 dicelab 尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("eval err: %s", name)))
		return
	}
	resp := DistResponse{
		Report:   stats.NewDistReport(name, d),
		UsedTime: time.Since(start).Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// DistByCfg 接受 request body 內嵌的 RollSetting JSON，
// 不經過 catalog，直接評估後回傳報表。
func (dh *DistHandler) DistByCfg(w http.ResponseWriter, r *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type DistByCfgResponse struct {
		Report   *stats.DistReport `json:"report"`
		UsedTime int64             `json:"used_ms"`
	}
	// Post方法限定
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		httperr.Errs(w, errs.NewWarn("read body err: "+err.Error()))
		return
	}
	rs, err := spec.GetRollSettingByJSON(body)
	if err != nil {
		// 設定檔錯誤一律當作呼叫端輸入錯誤
		httperr.Errs(w, errs.NewWarn("invalid roll setting: "+err.Error()))
		return
	}

	start := time.Now()
	d, err := dicelab.EvalSetting(rs, dicelab.EvalOpts{Workers: dh.Workers})
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("eval err: %s", rs.RollName)))
		return
	}
	resp := DistByCfgResponse{
		Report:   stats.NewDistReport(rs.RollName, d),
		UsedTime: time.Since(start).Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
