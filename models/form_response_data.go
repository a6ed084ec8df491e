package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormResponseData bir gönderim içindeki tek bir cevaptır.
// Value her cevap türü için string gösterime dönüştürülerek saklanır;
// boş bırakılan alanlar için null olabilir.
type FormResponseData struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ResponseID string    `gorm:"type:uuid;not null;index" json:"response_id"`
	FieldID    string    `gorm:"type:uuid;not null;index" json:"field_id"`
	Value      *string   `gorm:"type:text" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate yeni kayıtlarda UUID üretir.
func (d *FormResponseData) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
