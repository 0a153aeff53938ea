// Package planner drives the AI trip-planning core: a streaming client for
// the OpenAI-compatible chat gateway and a heuristic parser that extracts a
// structured itinerary from free-form assistant text.
package planner

// Message is one role-tagged entry of a conversation, passed verbatim to the
// AI gateway. Order is meaningful and preserved end-to-end.
type Message struct {
	Role    string `json:"role"` // user, assistant or system
	Content string `json:"content"`
}

// TripContext is a read-only snapshot of trip metadata sent alongside a chat
// request to ground the assistant's replies.
type TripContext struct {
	TripID      string   `json:"tripId"`
	Destination []string `json:"destination"`
	StartDate   string   `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate     string   `json:"endDate,omitempty"`   // YYYY-MM-DD
	Mode        string   `json:"mode"`                // solo, couple, family, friends
	BudgetVND   int64    `json:"budget"`
}

// Item type values produced by the itinerary parser.
const (
	ItemTypeFood      = "food"
	ItemTypeStay      = "stay"
	ItemTypeTransport = "transport"
	ItemTypeVisit     = "visit"
)

// ParsedDay is one day extracted from assistant text. DayIndex reflects the
// number written in the source header; repeated or skipped indexes are kept
// as-is, never renumbered.
type ParsedDay struct {
	DayIndex int          `json:"day_index"`
	Date     *string      `json:"date,omitempty"` // raw date token from the header
	Items    []ParsedItem `json:"items"`
}

// ParsedItem is one activity extracted from a bullet line. Items keep the
// order their lines appeared in; that order becomes the persisted sort order.
type ParsedItem struct {
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	StartTime        *string `json:"start_time,omitempty"` // HH:MM
	EndTime          *string `json:"end_time,omitempty"`   // HH:MM
	LocationName     *string `json:"location_name,omitempty"`
	ItemType         string  `json:"item_type"`
	EstimatedCostVND *int64  `json:"estimated_cost_vnd,omitempty"`
}
