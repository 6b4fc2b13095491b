package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the login surface. Accounts are memory-resident;
// they live only as long as the process.
type User struct {
	Id           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
