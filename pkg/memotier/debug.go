package memotier

import (
	"encoding/json"
	"net/http"
	"time"
)

// DebugResponse is the JSON document served by the debug endpoints.
type DebugResponse struct {
	Class   string        `json:"class"`
	Methods []DebugMethod `json:"methods"`
}

// DebugMethod carries one wrapped method's dispatch-tier statistics.
type DebugMethod struct {
	Name      string       `json:"name"`
	Hits      int64        `json:"hits"`
	Misses    int64        `json:"misses"`
	Evictions int64        `json:"evictions"`
	Clears    int64        `json:"clears"`
	SlotCount int64        `json:"slotCount"`
	HitRate   float64      `json:"hitRate"`
	Total     int64        `json:"total"`
	Config    *DebugConfig `json:"config"`
	Disabled  bool         `json:"disabled,omitempty"`
}

// DebugConfig reports the cache sizing a method was wrapped with.
type DebugConfig struct {
	GlobalMaxSize int  `json:"globalMaxSize"`
	LocalMaxSize  int  `json:"localMaxSize"`
	TypedKeys     bool `json:"typedKeys"`
}

// DebugHandler returns an HTTP handler exposing per-method cache
// statistics as JSON. It answers GET only.
func (c *Class) DebugHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		c.mu.RLock()
		methods := c.methods
		c.mu.RUnlock()

		response := DebugResponse{
			Class:   c.name,
			Methods: make([]DebugMethod, 0, len(methods)),
		}
		for _, m := range methods {
			dm := DebugMethod{
				Name:     m.name,
				Disabled: m.disabled,
				Config: &DebugConfig{
					GlobalMaxSize: m.globalMax,
					LocalMaxSize:  m.local.MaxSize,
					TypedKeys:     m.local.Typed,
				},
			}
			if !m.disabled {
				dm.Hits = m.stats.Hits()
				dm.Misses = m.stats.Misses()
				dm.Evictions = m.stats.Evictions()
				dm.Clears = m.stats.Clears()
				dm.SlotCount = int64(m.global.Len())
				dm.HitRate = m.stats.HitRate()
				dm.Total = m.stats.Total()
			}
			response.Methods = append(response.Methods, dm)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
		}
	})
}

// NewDebugServer creates an HTTP server serving the class's debug
// statistics at / and /stats.
func (c *Class) NewDebugServer(addr string) *http.Server {
	mux := http.NewServeMux()
	handler := c.DebugHandler()

	mux.Handle("/stats", handler)
	mux.Handle("/", handler)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
