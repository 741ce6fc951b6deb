package model

type Location struct {
	ID           int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64    `gorm:"not null;uniqueIndex" json:"restaurant_id"`
	Street       string   `gorm:"type:varchar(255)" json:"street"`
	City         string   `gorm:"type:varchar(100)" json:"city"`
	State        string   `gorm:"type:varchar(50)" json:"state"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func (l *Location) HasPoint() bool {
	return l.Latitude != nil && l.Longitude != nil
}
