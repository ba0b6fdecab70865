package model

import "time"

// CrashSlot is the durable single-slot row holding the most recent crash
// report. Exactly one row exists per slot key; each write replaces it.
type CrashSlot struct {
	Key string `gorm:"primaryKey;column:slot_key;size:100" json:"key"`

	// Serialized CrashReport
	Payload  string `gorm:"type:text" json:"payload"`
	ReportID string `gorm:"size:64" json:"report_id"`

	UpdatedAt time.Time `json:"updated_at"`
}
