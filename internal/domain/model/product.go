package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string `gorm:"type:varchar(255);not null;index" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	//価格は最小通貨単位（セント）のint64で持つ
	Price int64 `gorm:"not null" json:"price"`

	//在庫数。checkoutでは減算しない
	Inventory int64 `gorm:"not null" json:"inventory"`

	CollectionID int64 `gorm:"not null;index" json:"collection_id"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"last_update"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
