package models

import (
	"sort"
)

// FormDocument bir formun adımları ve alanlarıyla birlikte bir araya
// getirilmiş, render edilebilir/gönderilebilir halidir. Gömülü Form'un
// FormType alanı okuma anındaki "etkin" türü taşır: çok adımlı olarak
// kaydedilmiş ama hiç adımı olmayan bir form tek sayfalı gibi davranır
// (saklanan değer değiştirilmez, yalnızca bu kopya düzeltilir).
type FormDocument struct {
	Form
	Steps  []FormStep  `json:"steps"`
	Fields []FormField `json:"fields"`
}

// AssembleFormDocument ham kayıtlardan tutarlı bir doküman oluşturur.
// Adımlar ve alanlar order_index'e göre artan, kararlı (stable) biçimde
// sıralanır: eşit değerler girdi sırasını korur. Negatif, tekrarlı veya
// aralıklı order_index değerleri hata sayılmaz.
func AssembleFormDocument(form Form, steps []FormStep, fields []FormField) FormDocument {
	sortedSteps := make([]FormStep, len(steps))
	copy(sortedSteps, steps)
	sort.SliceStable(sortedSteps, func(i, j int) bool {
		return sortedSteps[i].OrderIndex < sortedSteps[j].OrderIndex
	})

	sortedFields := make([]FormField, len(fields))
	copy(sortedFields, fields)
	sort.SliceStable(sortedFields, func(i, j int) bool {
		return sortedFields[i].OrderIndex < sortedFields[j].OrderIndex
	})

	doc := FormDocument{
		Form:   form,
		Steps:  sortedSteps,
		Fields: sortedFields,
	}

	// Dejenere durum: adımsız çok adımlı form tek sayfalıya düzeltilir.
	if doc.FormType == FormTypeMultiStep && len(sortedSteps) == 0 {
		doc.FormType = FormTypeSingle
	}

	return doc
}

// SelectRenderableFields verilen adım için kapsam içindeki alanları döndürür.
// Hem form builder önizlemesi hem de public gönderim istemcisi adım
// kapsamını BURADAN almalıdır; tek doğruluk kaynağı bu fonksiyondur.
//
// Tek sayfalı (etkin) dokümanlarda step_id'si olmayan tüm alanlar döner ve
// stepIndex yok sayılır. Çok adımlı dokümanlarda yalnızca steps[stepIndex]
// adımına bağlı alanlar döner. Doküman çok adımlı görünüp hiç adım
// içermiyorsa (savunmacı durum) alanlar filtrelenmeden döner.
func SelectRenderableFields(doc FormDocument, stepIndex int) []FormField {
	if doc.FormType != FormTypeMultiStep {
		selected := make([]FormField, 0, len(doc.Fields))
		for _, field := range doc.Fields {
			if field.StepID == nil {
				selected = append(selected, field)
			}
		}
		return selected
	}

	if len(doc.Steps) == 0 {
		return doc.Fields
	}

	if stepIndex < 0 || stepIndex >= len(doc.Steps) {
		return []FormField{}
	}

	stepID := doc.Steps[stepIndex].ID
	selected := make([]FormField, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		if field.StepID != nil && *field.StepID == stepID {
			selected = append(selected, field)
		}
	}
	return selected
}
