package models

// FormStep çok adımlı bir formun sıralı bir aşamasını temsil eder.
// OrderIndex sıfırdan başlar ve form içinde adım sırasını belirler;
// her düzenlemede adımlar topluca silinip yeniden oluşturulduğu için
// sıra her zaman gönderilen listedeki konumdan türetilir.
type FormStep struct {
	BaseModel
	FormID      string `gorm:"type:uuid;not null;index" json:"form_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"not null;default:0" json:"order_index"`
}
