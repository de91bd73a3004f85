package model

import "time"

type Membership string

const (
	MembershipBronze Membership = "BRONZE"
	MembershipSilver Membership = "SILVER"
	MembershipGold   Membership = "GOLD"
)

// 顧客プロフィール。Userと1対1
type Customer struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone      string     `gorm:"type:varchar(30)" json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership Membership `gorm:"type:varchar(20);not null;default:'BRONZE'" json:"membership"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
