package types

// ------------------------
// Monitor state (retained)
// ------------------------

type MonitorStatus struct {
	Connected int    `json:"connected"`
	Error     string `json:"error,omitempty"` // machine-readable short code
	TS        int64  `json:"ts_ms"`
}

// ------------------------
// Control payloads
// ------------------------

// ListRequest and WhatIsRequest leave Mode and External nil to use the
// monitor's configured values.
type ListRequest struct {
	Mode      *Mode `json:"mode,omitempty"`
	Conflicts bool  `json:"conflicts,omitempty"`
	External  Table `json:"external,omitempty"`
}

type WhatIsRequest struct {
	Addr     Address `json:"addr"`
	Mode     *Mode   `json:"mode,omitempty"`
	External Table   `json:"external,omitempty"`
}

// ------------------------
// Generic replies
// ------------------------

type Reply struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Records []Record `json:"records,omitempty"`
}
