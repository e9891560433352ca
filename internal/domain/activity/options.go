package activity

// DefaultListLimit caps listings when no limit is given.
const DefaultListLimit = 50

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ProjectID    *string
	ClientID     *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
