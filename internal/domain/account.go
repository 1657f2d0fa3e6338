package domain

import "time"

// Account is one bank or card account statements are imported into.
// Institution names the statement schema used to normalize its exports.
type Account struct {
	ID          string
	Name        string
	Institution string
	CreatedAt   time.Time
}
