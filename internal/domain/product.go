package domain

// Product is a catalog entry. Modelo is unique across the table.
type Product struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Modelo string `gorm:"uniqueIndex;not null" json:"modelo"`
	Precio int64  `gorm:"not null" json:"precio"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "productos"
}
