package models

import "time"

// ActivityLog is the row layout of the activity_logs table.
type ActivityLog struct {
	ActivityID  string
	ActorID     string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	OldValues   []byte
	NewValues   []byte
	IPAddress   *string
	UserAgent   *string
	CreatedAt   time.Time
}
