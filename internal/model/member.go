package model

import "time"

type Member struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // PM / Developer / Designer / QA / ...
	Team      *string   `json:"team"`
	Type      string    `json:"type"` // existing / new
	JoinDate  *Date     `json:"join_date"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberPatch carries the fields of a partial update. Nil means untouched.
type MemberPatch struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Team     *string `json:"team"`
	Type     *string `json:"type"`
	JoinDate *Date   `json:"join_date"`
	Year     *int    `json:"year"`
}
