// Package index 提供根路徑的簡易狀態頁。
package index

import (
	"encoding/json"
	"net/http"
)

// IndexHandlerFn 回應服務名稱與可用的 API 路徑，作為簡易 liveness 頁。
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"service": "dicelab",
		"routes": []string{
			"GET  /v1/rolls",
			"GET  /v1/dist?name=<roll>|rid=<id>",
			"POST /v1/dist",
			"POST /v1/distbycfg",
		},
	})
}
