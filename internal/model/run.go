package model

import "time"

// SyncMode selects how much existing manifest state a sync run reuses.
type SyncMode string

const (
	// SyncMissing resolves only slots without a verified selected entry.
	SyncMissing SyncMode = "missing"
	// SyncRefresh re-queries and re-scores every slot, reusing downloaded
	// variants when the winning photo is unchanged.
	SyncRefresh SyncMode = "refresh"
	// SyncAll forces full re-resolution including transcoding.
	SyncAll SyncMode = "all"
)

// SyncRun is one recorded execution of the image sync pipeline.
type SyncRun struct {
	ID        string    `json:"id"`
	Mode      SyncMode  `json:"mode"`
	Strict    bool      `json:"strict"`
	Selected  int       `json:"selected"`
	Fallback  int       `json:"fallback"`
	Reused    int       `json:"reused"`
	Total     int       `json:"total"`
	Duration  int64     `json:"duration_ms"`
	CreatedAt time.Time `json:"created_at"`
}
