package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAssembleFormDocumentSortsByOrderIndex(t *testing.T) {
	form := Form{FormType: FormTypeMultiStep}
	steps := []FormStep{
		{BaseModel: BaseModel{ID: "s3"}, Title: "Üçüncü", OrderIndex: 2},
		{BaseModel: BaseModel{ID: "s1"}, Title: "Birinci", OrderIndex: 0},
		{BaseModel: BaseModel{ID: "s2"}, Title: "İkinci", OrderIndex: 1},
	}
	fields := []FormField{
		{BaseModel: BaseModel{ID: "f2"}, Label: "Soyad", OrderIndex: 1},
		{BaseModel: BaseModel{ID: "f1"}, Label: "Ad", OrderIndex: 0},
	}

	doc := AssembleFormDocument(form, steps, fields)

	require.Len(t, doc.Steps, 3)
	assert.Equal(t, "s1", doc.Steps[0].ID)
	assert.Equal(t, "s2", doc.Steps[1].ID)
	assert.Equal(t, "s3", doc.Steps[2].ID)

	require.Len(t, doc.Fields, 2)
	assert.Equal(t, "f1", doc.Fields[0].ID)
	assert.Equal(t, "f2", doc.Fields[1].ID)
}

func TestAssembleFormDocumentStableOnDuplicateOrderIndex(t *testing.T) {
	fields := []FormField{
		{BaseModel: BaseModel{ID: "fa"}, OrderIndex: 5},
		{BaseModel: BaseModel{ID: "fb"}, OrderIndex: 5},
		{BaseModel: BaseModel{ID: "fc"}, OrderIndex: 5},
	}

	doc := AssembleFormDocument(Form{FormType: FormTypeSingle}, nil, fields)

	require.Len(t, doc.Fields, 3)
	assert.Equal(t, "fa", doc.Fields[0].ID)
	assert.Equal(t, "fb", doc.Fields[1].ID)
	assert.Equal(t, "fc", doc.Fields[2].ID)
}

func TestAssembleFormDocumentDoesNotMutateInput(t *testing.T) {
	steps := []FormStep{
		{BaseModel: BaseModel{ID: "s2"}, OrderIndex: 1},
		{BaseModel: BaseModel{ID: "s1"}, OrderIndex: 0},
	}

	_ = AssembleFormDocument(Form{FormType: FormTypeMultiStep}, steps, nil)

	assert.Equal(t, "s2", steps[0].ID, "girdi dilimi sıralamadan etkilenmemeli")
}

func TestAssembleFormDocumentCorrectsSteplessMultiStep(t *testing.T) {
	form := Form{FormType: FormTypeMultiStep}

	doc := AssembleFormDocument(form, nil, nil)

	assert.Equal(t, FormTypeSingle, doc.FormType, "adımsız çok adımlı form tek sayfalı davranmalı")
	assert.Equal(t, FormTypeMultiStep, form.FormType, "saklanan tür değişmemeli")
}

func TestAssembleFormDocumentKeepsMultiStepWithSteps(t *testing.T) {
	form := Form{FormType: FormTypeMultiStep}
	steps := []FormStep{{BaseModel: BaseModel{ID: "s1"}, OrderIndex: 0}}

	doc := AssembleFormDocument(form, steps, nil)

	assert.Equal(t, FormTypeMultiStep, doc.FormType)
}

func TestSelectRenderableFieldsSinglePage(t *testing.T) {
	doc := AssembleFormDocument(Form{FormType: FormTypeSingle}, nil, []FormField{
		{BaseModel: BaseModel{ID: "f1"}, OrderIndex: 0},
		{BaseModel: BaseModel{ID: "f2"}, OrderIndex: 1, StepID: strPtr("yetim-adim")},
		{BaseModel: BaseModel{ID: "f3"}, OrderIndex: 2},
	})

	fields := SelectRenderableFields(doc, 0)

	require.Len(t, fields, 2)
	assert.Equal(t, "f1", fields[0].ID)
	assert.Equal(t, "f3", fields[1].ID)

	// Tek sayfalı dokümanda stepIndex yok sayılır.
	assert.Equal(t, fields, SelectRenderableFields(doc, 99))
}

func TestSelectRenderableFieldsMultiStepScoping(t *testing.T) {
	steps := []FormStep{
		{BaseModel: BaseModel{ID: "s1"}, OrderIndex: 0},
		{BaseModel: BaseModel{ID: "s2"}, OrderIndex: 1},
	}
	doc := AssembleFormDocument(Form{FormType: FormTypeMultiStep}, steps, []FormField{
		{BaseModel: BaseModel{ID: "f1"}, OrderIndex: 0, StepID: strPtr("s1")},
		{BaseModel: BaseModel{ID: "f2"}, OrderIndex: 1, StepID: strPtr("s2")},
		{BaseModel: BaseModel{ID: "f3"}, OrderIndex: 2, StepID: strPtr("s1")},
		{BaseModel: BaseModel{ID: "f4"}, OrderIndex: 3},
	})

	firstStep := SelectRenderableFields(doc, 0)
	require.Len(t, firstStep, 2)
	assert.Equal(t, "f1", firstStep[0].ID)
	assert.Equal(t, "f3", firstStep[1].ID)

	secondStep := SelectRenderableFields(doc, 1)
	require.Len(t, secondStep, 1)
	assert.Equal(t, "f2", secondStep[0].ID)
}

func TestSelectRenderableFieldsOutOfRangeStepIndex(t *testing.T) {
	steps := []FormStep{{BaseModel: BaseModel{ID: "s1"}, OrderIndex: 0}}
	doc := AssembleFormDocument(Form{FormType: FormTypeMultiStep}, steps, []FormField{
		{BaseModel: BaseModel{ID: "f1"}, StepID: strPtr("s1")},
	})

	assert.Empty(t, SelectRenderableFields(doc, -1))
	assert.Empty(t, SelectRenderableFields(doc, 1))
}

func TestFormFieldIsInputType(t *testing.T) {
	assert.True(t, FormField{Type: FieldTypeText}.IsInputType())
	assert.True(t, FormField{Type: FieldTypeSelect}.IsInputType())
	assert.False(t, FormField{Type: FieldTypeHeading}.IsInputType())
	assert.False(t, FormField{Type: FieldTypeParagraph}.IsInputType())
}
