package types

import (
	"time"

	"github.com/google/uuid"
)

// Entry status values. These are the only legal values; anything else
// must be rejected at validation time, never coerced.
const (
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
)

// Moderation workflow states for user-submitted entries. Independent
// of the green/yellow/red status.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// ValidStatus reports whether s is one of the three entry statuses.
func ValidStatus(s string) bool {
	return s == StatusGreen || s == StatusYellow || s == StatusRed
}

// LegalEntry is one (country, category, topic) legal-status record as
// stored in cartilha_entries.
type LegalEntry struct {
	ID               uuid.UUID `json:"id"`
	CountryCode      string    `json:"country_code"`
	CategoryID       int       `json:"category_id"`
	Topic            string    `json:"topic"`
	Status           string    `json:"status"`
	LegalBasis       string    `json:"legal_basis"`
	PlainExplanation string    `json:"plain_explanation"`
	CulturalNote     *string   `json:"cultural_note"`
	ModerationStatus string    `json:"moderation_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RetrievedEntry is a LegalEntry enriched with the denormalized
// country display name, as handed to the prompt assembler. The
// country join is flattened at the database boundary so scoring code
// never sees relational shapes.
type RetrievedEntry struct {
	CountryCode      string  `json:"country_code"`
	CountryName      string  `json:"country_name"`
	Topic            string  `json:"topic"`
	Status           string  `json:"status"`
	PlainExplanation string  `json:"plain_explanation"`
	LegalBasis       string  `json:"legal_basis"`
	CulturalNote     *string `json:"cultural_note"`
}

// SimilarityCandidate is one existing entry scored against a proposed
// new entry. Ephemeral: produced fresh per check, never persisted.
type SimilarityCandidate struct {
	ID               uuid.UUID `json:"id"`
	Topic            string    `json:"topic"`
	Status           string    `json:"status"`
	LegalBasis       string    `json:"legal_basis"`
	PlainExplanation string    `json:"plain_explanation"`
	CulturalNote     *string   `json:"cultural_note"`
	Score            int       `json:"similarity_score"`
	Reason           string    `json:"similarity_reason"`
}

// RAGResult is everything one chat turn retrieved, for building the
// prompt and the user-facing sources list.
type RAGResult struct {
	Entries           []RetrievedEntry `json:"entries"`
	Keywords          []string         `json:"keywords"`
	DetectedCountries []string         `json:"detectedCountries"`
}

// ChatContext carries the country the user is currently browsing, if
// the chat widget knows it.
type ChatContext struct {
	CountryCode string `json:"countryCode,omitempty"`
	CountryName string `json:"countryName,omitempty"`
}

// EntrySource identifies a retrieved entry in a chat answer's sources list.
type EntrySource struct {
	CountryCode string `json:"countryCode"`
	Topic       string `json:"topic"`
	Status      string `json:"status"`
}

// ChatMessage is a single message in the format the completion API expects.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Country is a row from the countries table.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Category is a row from the categories table.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StandardTopic is a curated topic label used for suggesting
// consistent wording during entry creation.
type StandardTopic struct {
	ID         int      `json:"id"`
	TopicName  string   `json:"topic_name"`
	CategoryID int      `json:"category_id"`
	Keywords   []string `json:"keywords"`
}

// TopicSuggestion points a proposed entry at a standard topic.
type TopicSuggestion struct {
	Topic    string `json:"topic,omitempty"`
	Category int    `json:"category,omitempty"`
}

// ValidationResult is the outcome of validating a proposed entry.
// Errors block persistence; warnings and suggestions are advisory.
type ValidationResult struct {
	Valid       bool            `json:"valid"`
	Errors      []string        `json:"errors"`
	Warnings    []string        `json:"warnings"`
	Suggestions TopicSuggestion `json:"suggestions"`
}

// CountryStats aggregates entry statuses for one country.
type CountryStats struct {
	CountryCode string `json:"country_code"`
	Green       int    `json:"green"`
	Yellow      int    `json:"yellow"`
	Red         int    `json:"red"`
}
