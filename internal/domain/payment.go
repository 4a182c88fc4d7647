package domain

import "time"

// PaymentQRName is the logical key of the payment QR image row.
const PaymentQRName = "pagoQR"

// PaymentAsset stores a binary payment asset, such as the QR image shown to
// customers. Rows are written once by the seeder and never modified.
type PaymentAsset struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre        string    `gorm:"index;not null" json:"nombre"`
	Img           []byte    `gorm:"not null" json:"-"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;default:CURRENT_TIMESTAMP" json:"fecha_creacion"`
}

// TableName Specify table name
func (PaymentAsset) TableName() string {
	return "pago"
}
