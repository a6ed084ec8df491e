package handlers

import (
	"errors"

	"formum.link/configs/configslog"
	"formum.link/pkg/identity"
	"formum.link/pkg/queryparams"
	"formum.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResponseHandler form gönderimi endpoint'leri için handler.
type ResponseHandler struct {
	service     services.IFormResponseService
	formService services.IFormService
	identity    identity.IClient
}

// NewResponseHandler yeni bir ResponseHandler örneği oluşturur.
func NewResponseHandler(identityClient identity.IClient) *ResponseHandler {
	return &ResponseHandler{
		service:     services.NewFormResponseService(identityClient),
		formService: services.NewFormService(),
		identity:    identityClient,
	}
}

// NewResponseHandlerWithServices verilen servislerle bir ResponseHandler oluşturur (DI için).
func NewResponseHandlerWithServices(service services.IFormResponseService, formService services.IFormService, identityClient identity.IClient) *ResponseHandler {
	return &ResponseHandler{service: service, formService: formService, identity: identityClient}
}

// SubmitForm bir form gönderimini kaydeder. Public endpoint'tir; oturum
// varsa gönderen kullanıcı kimliği kayıtla ilişkilendirilir.
// POST /api/forms/:id/submit
func (h *ResponseHandler) SubmitForm(c *fiber.Ctx) error {
	formID := c.Params("id")

	var input services.SubmissionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	input.IPAddress = c.IP()
	input.UserAgent = c.Get(fiber.HeaderUserAgent)
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		input.SubmittedBy = userID
	}

	response, err := h.service.SubmitFormResponse(c.UserContext(), formID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResponseFormNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrResponseFormInactive):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrResponseInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrResponseSubmissionFailed.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "response_id": response.ID})
}

// requireFormAdmin formu bulur ve oturumdaki kullanıcının formun şirketinde
// yönetici olduğunu doğrular. Başarısızlıkta nil olmayan bir *fiber.Error
// döner; çağıran bunu handler'dan geri döndürerek işlemi keser. Korunan
// veri (gönderimler) ancak bu kontrol nil döndüğünde okunabilir.
func (h *ResponseHandler) requireFormAdmin(c *fiber.Ctx, formID string) error {
	doc, err := h.formService.GetFormByID(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return fiber.NewError(fiber.StatusNotFound, services.ErrFormNotFound.Error())
		}
		configslog.Log.Error("Form erişim kontrolü için form alınamadı", zap.String("id", formID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "form alınamadı")
	}

	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "kimlik doğrulama gerekli")
	}
	level, err := h.identity.CheckCompanyAccess(c.UserContext(), userID, doc.CompanyID)
	if err != nil {
		configslog.Log.Error("Şirket erişim kontrolü başarısız",
			zap.String("userID", userID), zap.String("companyID", doc.CompanyID), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "kimlik servisi yanıt vermiyor")
	}
	if level != identity.AccessLevelAdmin {
		return fiber.NewError(fiber.StatusForbidden, "bu işlem için yönetici yetkisi gerekli")
	}
	return nil
}

// ListResponses bir formun gönderimlerini en yeniden eskiye doğru sayfalı listeler.
// GET /api/forms/:id/responses?page=&per_page=
func (h *ResponseHandler) ListResponses(c *fiber.Ctx) error {
	formID := c.Params("id")
	if err := h.requireFormAdmin(c, formID); err != nil {
		return err
	}

	params := queryparams.DefaultListParams("submitted_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("submitted_at")
	}
	params.Validate()

	result, err := h.service.GetFormResponses(c.UserContext(), formID, params)
	if err != nil {
		if errors.Is(err, services.ErrResponseFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "gönderimler listelenemedi"})
	}

	return c.JSON(result)
}

// ExportResponses bir formun tüm gönderimlerini JSON olarak dışa aktarır.
// GET /api/forms/:id/export?format=json
func (h *ResponseHandler) ExportResponses(c *fiber.Ctx) error {
	formID := c.Params("id")
	if err := h.requireFormAdmin(c, formID); err != nil {
		return err
	}

	format := c.Query("format", "json")
	if format != "json" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "desteklenmeyen format: " + format})
	}

	export, err := h.service.BuildFormExport(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, services.ErrResponseFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrResponseExportFailed.Error()})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="form-`+formID+`-responses.json"`)
	return c.JSON(export)
}
