package config

const (
	// MaxTripTitleLength is the maximum length for trip titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTripTitleLength = 255

	// MaxSessionTitleLength is the maximum length for chat session titles.
	MaxSessionTitleLength = 255

	// MaxItemTitleLength is the maximum length for itinerary item titles.
	// The itinerary parser also derives titles capped at 100 characters.
	MaxItemTitleLength = 100

	// MaxItemDescriptionLength is the maximum length for itinerary item
	// descriptions. Parser-derived descriptions are truncated to this.
	MaxItemDescriptionLength = 500

	// MaxMessageLength is the maximum length for a single chat message.
	// Generous cap; the AI gateway enforces its own token limits.
	MaxMessageLength = 32000

	// MaxConversationMessages is the maximum number of messages accepted
	// in one streaming request.
	MaxConversationMessages = 100

	// MaxCommunityTags is the maximum number of tags on a published
	// itinerary.
	MaxCommunityTags = 10
)
