package entity

import (
	"time"

	"github.com/google/uuid"
)

type Preference struct {
	Id        uuid.UUID
	UserId    string
	Text      string
	CreatedAt time.Time
}
