package entities

import "time"

// User is an account holder. PasswordHash is excluded from JSON so it can
// never leak through a response body.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session grants the bearer of its ID authenticated access as UserID until
// ExpiresAt. A session past ExpiresAt is dead even if the row still exists.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"index;size:36" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records an authentication action for the audit trail.
type AuditEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    string      `gorm:"index;size:36" json:"user_id"`
	Action    string      `gorm:"size:100" json:"action"` // e.g. "login", "signup", "logout"
	IPAddress string      `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string      `gorm:"size:500" json:"user_agent,omitempty"`
	Status    AuditStatus `gorm:"size:20" json:"status"`
	ErrorMsg  string      `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
