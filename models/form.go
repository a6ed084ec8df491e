package models

import (
	"gorm.io/datatypes"
)

// FormType bir formun tek sayfa mı yoksa çok adımlı mı olduğunu belirtir.
type FormType string

const (
	FormTypeSingle    FormType = "single"
	FormTypeMultiStep FormType = "multi-step"
)

// Form bir şirkete (tenant) ait form tanımının ana kaydıdır.
// Settings alanı görünüm ayarlarını (logoUrl, primaryColor, backgroundColor,
// fontFamily) içeren serbest bir JSON torbasıdır; çekirdek mantık bu
// anahtarları yorumlamaz.
type Form struct {
	BaseModel
	Title            string            `gorm:"type:varchar(255);not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	CompanyID        string            `gorm:"type:varchar(64);not null;index" json:"company_id"`
	CreatedBy        string            `gorm:"type:varchar(64);not null" json:"created_by"`
	FormType         FormType          `gorm:"type:varchar(20);not null;default:'single'" json:"form_type"`
	IsActive         bool              `gorm:"not null;default:true;index" json:"is_active"`
	OrderIndex       int               `gorm:"not null;default:0;index" json:"order_index"`
	Settings         datatypes.JSONMap `gorm:"type:jsonb" json:"settings"`
	UseDefaultColors bool              `gorm:"not null;default:true" json:"use_default_colors"`
}
