package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormResponse bir forma yapılan tek bir gönderimi temsil eder.
// SubmittedBy platform kullanıcı ID'sidir ve anonim gönderimlerde null olur.
// Username gönderim anında kimlik sağlayıcısından best-effort çözümlenen
// görünen addır; çözümlenemezse null kalır ve gönderim yine de başarılıdır.
type FormResponse struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	FormID      string    `gorm:"type:uuid;not null;index" json:"form_id"`
	SubmittedBy *string   `gorm:"type:varchar(64)" json:"submitted_by"`
	SubmittedAt time.Time `gorm:"index" json:"submitted_at"`
	IPAddress   string    `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent   string    `gorm:"type:varchar(512)" json:"user_agent"`
	Username    *string   `gorm:"type:varchar(255)" json:"username"`

	Data []FormResponseData `gorm:"foreignKey:ResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"data"`
}

// BeforeCreate UUID ve gönderim zamanını atar.
func (r *FormResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	return nil
}
