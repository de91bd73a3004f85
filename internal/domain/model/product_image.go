package model

import "time"

// 商品画像。画像本体は外部に置き、URLだけ持つ
type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"type:varchar(1024);not null" json:"image"`
	SizeBytes int64     `gorm:"not null" json:"size_bytes"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
