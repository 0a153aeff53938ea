package postgres

import "fmt"

// TableNames holds the prefixed table names for the current environment.
type TableNames struct {
	Trips             string
	TripDays          string
	TripItems         string
	ChatSessions      string
	ChatMessages      string
	Profiles          string
	PublicItineraries string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Trips:             fmt.Sprintf("%strips", prefix),
		TripDays:          fmt.Sprintf("%strip_days", prefix),
		TripItems:         fmt.Sprintf("%strip_items", prefix),
		ChatSessions:      fmt.Sprintf("%schat_sessions", prefix),
		ChatMessages:      fmt.Sprintf("%schat_messages", prefix),
		Profiles:          fmt.Sprintf("%sprofiles", prefix),
		PublicItineraries: fmt.Sprintf("%spublic_itineraries", prefix),
	}
}
