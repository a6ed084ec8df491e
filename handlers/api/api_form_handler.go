package handlers

import (
	"errors"

	"formum.link/configs/configslog"
	"formum.link/pkg/identity"
	"formum.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormHandler form yaşam döngüsü endpoint'leri için handler.
type FormHandler struct {
	service  services.IFormService
	identity identity.IClient
}

// NewFormHandler yeni bir FormHandler örneği oluşturur.
func NewFormHandler(identityClient identity.IClient) *FormHandler {
	return &FormHandler{
		service:  services.NewFormService(),
		identity: identityClient,
	}
}

// NewFormHandlerWithService verilen servisle bir FormHandler oluşturur (DI için).
func NewFormHandlerWithService(service services.IFormService, identityClient identity.IClient) *FormHandler {
	return &FormHandler{service: service, identity: identityClient}
}

// isValidationError istemci kaynaklı girdi hatalarını sunucu hatalarından ayırır.
func isValidationError(err error) bool {
	return errors.Is(err, services.ErrFrmInvalidInput) ||
		errors.Is(err, services.ErrFormTitleRequired) ||
		errors.Is(err, services.ErrFormCompanyRequired)
}

// requireAdminAccess oturumdaki kullanıcının verilen şirkette yönetici
// olduğunu doğrular. Başarısızlıkta nil olmayan bir *fiber.Error döner;
// çağıran bu hatayı handler'dan geri döndürerek işlemi keser ve cevabı
// uygulamanın hata işleyicisi yazar. Buradan asla nil dönüp devam edilmez:
// yetkisiz çağıranın korunan işlemi çalıştırmaması bu sözleşmeye dayanır.
func (h *FormHandler) requireAdminAccess(c *fiber.Ctx, companyID string) error {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "kimlik doğrulama gerekli")
	}
	if companyID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "şirket bilgisi eksik")
	}

	level, err := h.identity.CheckCompanyAccess(c.UserContext(), userID, companyID)
	if err != nil {
		configslog.Log.Error("Şirket erişim kontrolü başarısız",
			zap.String("userID", userID), zap.String("companyID", companyID), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "kimlik servisi yanıt vermiyor")
	}
	if level != identity.AccessLevelAdmin {
		return fiber.NewError(fiber.StatusForbidden, "bu işlem için yönetici yetkisi gerekli")
	}
	return nil
}

// ListForms bir şirketin formlarını listeler. Yönetici pasif formları da
// görür; diğer herkes yalnızca aktif formları alır.
// GET /api/forms?company_id=...&q=...
func (h *FormHandler) ListForms(c *fiber.Ctx) error {
	companyID := c.Query("company_id")
	if companyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "company_id parametresi zorunlu"})
	}

	onlyActive := true
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		level, err := h.identity.CheckCompanyAccess(c.UserContext(), userID, companyID)
		if err == nil && level == identity.AccessLevelAdmin {
			onlyActive = false
		}
	}

	docs, err := h.service.GetFormsForCompany(c.UserContext(), companyID, onlyActive, c.Query("q"))
	if err != nil {
		configslog.Log.Error("ListForms failed", zap.String("companyID", companyID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "formlar listelenemedi"})
	}

	return c.JSON(fiber.Map{"forms": docs})
}

// GetForm tek bir formu adımları ve alanlarıyla döner. Public endpoint'tir;
// form render eden istemci aktiflik kontrolünü is_active alanından yapar.
// GET /api/forms/:id
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	formID := c.Params("id")

	doc, err := h.service.GetFormByID(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrFormNotFound.Error()})
		}
		configslog.Log.Error("GetForm failed", zap.String("id", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "form alınamadı"})
	}

	return c.JSON(doc)
}

// CreateForm yeni bir form oluşturur.
// POST /api/forms
func (h *FormHandler) CreateForm(c *fiber.Ctx) error {
	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}

	if err := h.requireAdminAccess(c, input.CompanyID); err != nil {
		return err
	}
	userID, _ := c.Locals("userID").(string)

	doc, err := h.service.CreateForm(c.UserContext(), userID, input)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrFormCreationFailed.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// UpdateForm mevcut bir formu gönderilen adım ve alan kümesiyle tamamen değiştirir.
// PUT /api/forms/:id
func (h *FormHandler) UpdateForm(c *fiber.Ctx) error {
	formID := c.Params("id")

	existing, err := h.service.GetFormByID(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrFormNotFound.Error()})
		}
		configslog.Log.Error("UpdateForm lookup failed", zap.String("id", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "form alınamadı"})
	}
	if err := h.requireAdminAccess(c, existing.CompanyID); err != nil {
		return err
	}

	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}

	doc, err := h.service.UpdateForm(c.UserContext(), formID, input)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrFormNotFound.Error()})
		}
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrFormUpdateFailed.Error()})
	}

	return c.JSON(doc)
}

// DeleteForm bir formu ve bağlı tüm kayıtlarını siler.
// DELETE /api/forms/:id
func (h *FormHandler) DeleteForm(c *fiber.Ctx) error {
	formID := c.Params("id")

	existing, err := h.service.GetFormByID(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			// Zaten yok; silme idempotenttir.
			return c.JSON(fiber.Map{"success": true})
		}
		configslog.Log.Error("DeleteForm lookup failed", zap.String("id", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "form alınamadı"})
	}
	if err := h.requireAdminAccess(c, existing.CompanyID); err != nil {
		return err
	}

	if err := h.service.DeleteForm(c.UserContext(), formID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrFormDeletionFailed.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ToggleFormActivity formun aktiflik durumunu tersine çevirir.
// POST /api/forms/:id/toggle-activity
func (h *FormHandler) ToggleFormActivity(c *fiber.Ctx) error {
	formID := c.Params("id")

	existing, err := h.service.GetFormByID(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrFormNotFound.Error()})
		}
		configslog.Log.Error("ToggleFormActivity lookup failed", zap.String("id", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "form alınamadı"})
	}
	if err := h.requireAdminAccess(c, existing.CompanyID); err != nil {
		return err
	}

	doc, err := h.service.ToggleFormActivity(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrFormNotFound.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrFormUpdateFailed.Error()})
	}

	return c.JSON(doc)
}

// ReorderFormsRequest form sıralama isteğinin gövdesidir.
type ReorderFormsRequest struct {
	CompanyID string   `json:"company_id"`
	FormIDs   []string `json:"form_ids"`
}

// ReorderForms bir şirketin formlarını verilen ID sırasına göre sıralar.
// POST /api/forms/reorder
func (h *FormHandler) ReorderForms(c *fiber.Ctx) error {
	var req ReorderFormsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}

	if err := h.requireAdminAccess(c, req.CompanyID); err != nil {
		return err
	}

	if err := h.service.ReorderForms(c.UserContext(), req.CompanyID, req.FormIDs); err != nil {
		if errors.Is(err, services.ErrFrmInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrFormReorderFailed.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}
