package domain

import "time"

// Organisation is a logical grouping of users. Users see each other's records
// only when they share at least one organisation.
type Organisation struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Membership is the unordered user-organisation pairing. It is created by
// registration (default organisation) or by an explicit add; this service
// never removes memberships.
type Membership struct {
	UserID    string
	OrgID     string
	CreatedAt time.Time
}
