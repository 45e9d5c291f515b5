package venue

import "time"

// Venue is a physical location with a fixed seating capacity.
type Venue struct {
	ID       string
	Name     string
	Address  string
	Capacity int
	// OpeningTime and ClosingTime are "HH:mm" and descriptive only.
	OpeningTime string
	ClosingTime string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
