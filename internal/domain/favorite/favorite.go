package favorite

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	UserID     uuid.UUID
	MenuItemID int64
	CreatedAt  time.Time
}
