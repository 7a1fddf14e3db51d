package cast

import (
	"time"

	"github.com/google/uuid"
)

// Cast is one entry of the venue roster. Clock events and slips refer to
// casts by name only, the roster is never enforced on them.
type Cast struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uq_cast_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Cast) TableName() string {
	return "casts"
}
