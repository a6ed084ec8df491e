package routes

import (
	apiHandlers "formum.link/handlers/api"
	"formum.link/middlewares"
	"formum.link/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// registerFormRoutes form ve gönderim rotalarını kaydeder.
// Public rotalarda oturum isteğe bağlıdır; yönetim rotaları doğrulanmış
// kullanıcı ister ve şirket bazlı yetki kontrolü handler'larda yapılır.
func registerFormRoutes(app *fiber.App, identityClient identity.IClient) {
	formHandler := apiHandlers.NewFormHandler(identityClient)
	responseHandler := apiHandlers.NewResponseHandler(identityClient)

	optionalUser := middlewares.OptionalUser(identityClient)
	requireUser := middlewares.RequireUser(identityClient)

	forms := app.Group("/api/forms")

	// Public rotalar (oturum isteğe bağlı). Grup middleware'i path önekine
	// göre çalıştığından RequireUser rota bazında eklenir.
	forms.Get("/", optionalUser, formHandler.ListForms)
	forms.Get("/:id", optionalUser, formHandler.GetForm)
	forms.Post("/:id/submit", optionalUser, responseHandler.SubmitForm)

	// Yönetim rotaları (oturum zorunlu)
	forms.Post("/", requireUser, formHandler.CreateForm)
	forms.Post("/reorder", requireUser, formHandler.ReorderForms)
	forms.Put("/:id", requireUser, formHandler.UpdateForm)
	forms.Delete("/:id", requireUser, formHandler.DeleteForm)
	forms.Post("/:id/toggle-activity", requireUser, formHandler.ToggleFormActivity)
	forms.Get("/:id/responses", requireUser, responseHandler.ListResponses)
	forms.Get("/:id/export", requireUser, responseHandler.ExportResponses)
}
