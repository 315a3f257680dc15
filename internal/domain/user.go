package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserId = uuid.UUID

type User struct {
	Id            UserId
	Email         string
	Name          string
	PassHash      string
	Active        bool
	Staff         bool
	Superuser     bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLogin     *time.Time
}
