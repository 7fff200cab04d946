package cache

// Simple JSON protocol for the cache daemon over a Unix domain socket.
// A connection carries a stream of request/response pairs.

const (
	OpGet    = "get"
	OpPut    = "put"
	OpDelete = "delete"
)

type Request struct {
	Op       string `json:"op"` // "get" | "put" | "delete"
	Key      string `json:"key"`
	Value    []byte `json:"value,omitempty"`
	TTLMilli int64  `json:"ttl_ms,omitempty"`
}

type Response struct {
	OK    bool   `json:"ok"`
	Value []byte `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}
