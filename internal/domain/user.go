package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the profile of an authenticated account holder. It is used for
// display only, never in business rules.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	CreatedAt   time.Time
}
