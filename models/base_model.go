package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel tüm modellerde ortak olan alanları içerir.
// Birincil anahtar olarak UUID kullanılır; değer BeforeCreate hook'unda atanır.
type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate yeni kayıtlarda UUID üretir. Dışarıdan gelen geçici ID'ler
// (form builder'ın ürettiği "tmp-..." değerleri) asla veritabanına yazılmaz;
// kayıt oluşturulmadan önce servis katmanı bu alanı temizler.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
