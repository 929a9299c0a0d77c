package models

import "time"

// Aircraft represents an aircraft record.
type Aircraft struct {
	ID           int64     `db:"id" json:"id"`
	Registration string    `db:"registration" json:"registration"`
	Model        string    `db:"model" json:"model"`
	HobbsMeter   float64   `db:"hobbs_meter" json:"hobbs_meter"`
	TachoMeter   float64   `db:"tacho_meter" json:"tacho_meter"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Equipment represents a non-aircraft bookable asset (simulator, headset set,
// briefing room).
type Equipment struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
