package model

// 商品のまとまり（カテゴリ相当）
type Collection struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"type:varchar(255);not null" json:"title"`

	//おすすめ商品（無くてもよい）
	FeaturedProductID *int64 `gorm:"index" json:"featured_product_id"`
}
