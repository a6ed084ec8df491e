package models

import (
	"gorm.io/datatypes"
)

// FieldType bir form alanının türünü belirtir.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeEmail     FieldType = "email"
	FieldTypePhone     FieldType = "phone"
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeHeading   FieldType = "heading"
	FieldTypeParagraph FieldType = "paragraph"
)

// FormField bir form içindeki tek bir girdi veya içerik öğesidir.
// Label/Placeholder girdi türleri için, Content ise heading/paragraph gibi
// statik içerik türleri için anlamlıdır. Options yalnızca select türünde
// kullanılır. StepID null ise alan ya tek sayfalı bir forma aittir ya da
// çok adımlı bir formda hiçbir adıma atanmamıştır (render edilmez).
type FormField struct {
	BaseModel
	FormID      string                      `gorm:"type:uuid;not null;index" json:"form_id"`
	Type        FieldType                   `gorm:"type:varchar(20);not null" json:"type"`
	Label       string                      `gorm:"type:varchar(255)" json:"label"`
	Placeholder string                      `gorm:"type:varchar(255)" json:"placeholder"`
	Content     string                      `gorm:"type:text" json:"content"`
	Required    bool                        `gorm:"not null;default:false" json:"required"`
	Options     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"options"`
	OrderIndex  int                         `gorm:"not null;default:0" json:"order_index"`
	StepID      *string                     `gorm:"type:uuid;index" json:"step_id"`
}

// IsInputType alanın kullanıcıdan veri toplayan bir tür olup olmadığını döndürür.
// Heading ve paragraph yalnızca görüntüleme amaçlıdır.
func (f FormField) IsInputType() bool {
	switch f.Type {
	case FieldTypeHeading, FieldTypeParagraph:
		return false
	default:
		return true
	}
}
