package profile

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	UserID    uuid.UUID
	FullName  string
	Email     string
	Phone     string
	Address   string
	UpdatedAt time.Time
}
