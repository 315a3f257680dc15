package domain

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id          uuid.UUID
	OwnerId     UserId
	OwnerEmail  string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
