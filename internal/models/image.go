package models

import "time"

// Image is the database row model for the images table.
type Image struct {
	ImageID     string    `db:"image_id"`
	OwnerID     string    `db:"owner_id"`
	ImageURL    string    `db:"image_url"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Disease     string    `db:"disease"`
	Confidence  float64   `db:"confidence"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
