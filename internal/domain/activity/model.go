package activity

import "time"

// ActivityType represents the type of dashboard change recorded
type ActivityType string

const (
	TypeClientAdded          ActivityType = "client_added"
	TypeClientUpdated        ActivityType = "client_updated"
	TypeProjectAdded         ActivityType = "project_added"
	TypeProjectUpdated       ActivityType = "project_updated"
	TypePaymentAdded         ActivityType = "payment_added"
	TypeProjectPaid          ActivityType = "project_paid"
	TypeProjectStatusChanged ActivityType = "project_status_changed"
)

// ActivityEntry represents an applied action in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ActivityType ActivityType `json:"type"`
	ProjectID    *string      `json:"project_id,omitempty"`
	ClientID     *string      `json:"client_id,omitempty"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
