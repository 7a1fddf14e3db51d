package slip

import (
	"time"

	"github.com/google/uuid"
)

// Slip is one sales slip. Amounts are stored per cast, already split.
type Slip struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SlipDate  string    `gorm:"column:slip_date;type:varchar(10);not null;index"`
	Name1     string    `gorm:"column:name1;type:varchar(100)"`
	Name2     string    `gorm:"column:name2;type:varchar(100)"`
	Name3     string    `gorm:"column:name3;type:varchar(100)"`
	Total     int64     `gorm:"column:total;not null;default:0"`
	SetInfo   string    `gorm:"column:set_info;type:varchar(50)"`
	MineIce   string    `gorm:"column:mine_ice;type:varchar(50)"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Slip) TableName() string {
	return "slips"
}

// Names returns the non-blank cast names in slot order.
func (s Slip) Names() []string {
	names := make([]string, 0, 3)
	for _, n := range []string{s.Name1, s.Name2, s.Name3} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// DailySales is one row of the per-day aggregate.
type DailySales struct {
	SlipDate  string `gorm:"column:slip_date"`
	SlipCount int64  `gorm:"column:slip_count"`
	Total     int64  `gorm:"column:total"`
}
