package domain

import "time"

// Product is an uploaded product photo owned by a single user. The image
// itself lives in blob storage; ImageID is the opaque storage reference.
type Product struct {
	ID          string
	UserID      string
	ImageID     string
	Name        string
	Description string
	CreatedAt   time.Time
}
