package domain

import "time"

// Skill is a named capability users can be associated with (many-to-many).
// Skill names are unique; AddSkills creates missing names on the fly.
type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
