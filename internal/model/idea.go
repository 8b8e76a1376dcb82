package model

import "time"

// Idea priority values. Zero means no priority set.
const (
	PriorityNone   = 0
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Idea status values. Converted is terminal and only reachable through
// the promotion operation.
const (
	IdeaStatusOpen      = "open"
	IdeaStatusApproved  = "approved"
	IdeaStatusRejected  = "rejected"
	IdeaStatusConverted = "converted"
)

type Idea struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"` // issue / feature
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Year        int       `json:"year"`
	Product     *string   `json:"product"`
	Priority    int       `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Comments    []Comment `json:"comments"`
}

type Comment struct {
	ID        int       `json:"id"`
	IdeaID    int       `json:"idea_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type IdeaPatch struct {
	Type        *string `json:"type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Year        *int    `json:"year"`
	Product     *string `json:"product"`
	Priority    *int    `json:"priority"`
	Status      *string `json:"status"`
}
