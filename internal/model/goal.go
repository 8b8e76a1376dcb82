package model

import "time"

type Goal struct {
	ID             int         `json:"id"`
	Type           string      `json:"type"` // issue / feature / feedback
	Title          string      `json:"title"`
	Description    *string     `json:"description"`
	ExpectedEffect *string     `json:"expected_effect"`
	Year           int         `json:"year"`
	Quarter        *string     `json:"quarter"` // Q1..Q4 or null
	Team           *string     `json:"team"`
	Product        *string     `json:"product"`
	Progress       int         `json:"progress"` // 0-100
	StartDate      *Date       `json:"start_date"`
	EndDate        *Date       `json:"end_date"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Milestones     []Milestone `json:"milestones"`
}

type Milestone struct {
	ID          int       `json:"id"`
	GoalID      int       `json:"goal_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   *Date     `json:"start_date"`
	DueDate     *Date     `json:"due_date"`
	Progress    int       `json:"progress"` // 0-100
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tasks       []Task    `json:"tasks"`
}

type Task struct {
	ID          int       `json:"id"`
	MilestoneID int       `json:"milestone_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	AssigneeID  *int      `json:"assignee_id"`
	StartDate   *Date     `json:"start_date"`
	DueDate     *Date     `json:"due_date"`
	Progress    int       `json:"progress"` // 0-100
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Assignee    *Member   `json:"assignee"`
}

type GoalPatch struct {
	Type           *string `json:"type"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	ExpectedEffect *string `json:"expected_effect"`
	Year           *int    `json:"year"`
	Quarter        *string `json:"quarter"`
	Team           *string `json:"team"`
	Product        *string `json:"product"`
	Progress       *int    `json:"progress"`
	StartDate      *Date   `json:"start_date"`
	EndDate        *Date   `json:"end_date"`
}

type MilestonePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *Date   `json:"start_date"`
	DueDate     *Date   `json:"due_date"`
	Progress    *int    `json:"progress"`
}

type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssigneeID  *int    `json:"assignee_id"`
	StartDate   *Date   `json:"start_date"`
	DueDate     *Date   `json:"due_date"`
	Progress    *int    `json:"progress"`
}
