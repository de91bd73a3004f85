package model

import "time"

// 匿名カート。IDはUUIDのトークンで、これを知っていることが権限になる
type Cart struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
