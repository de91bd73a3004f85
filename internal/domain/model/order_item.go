package model

// 注文明細。
// unit_priceは注文時点の商品価格のコピーで、以後の価格変更の影響を受けない
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	UnitPrice int64 `gorm:"not null" json:"unit_price"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
