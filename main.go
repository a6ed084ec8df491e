package main

import (
	"os"
	"os/signal"
	"syscall"

	"formum.link/configs"
	"formum.link/configs/configsdatabase"
	"formum.link/configs/configslog"
	"formum.link/pkg/identity"
	"formum.link/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configs.LoadEnv()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	identityClient := identity.NewClient(
		configs.GetIdentityServiceURL(),
		configs.GetIdentityAPIKey(),
		configs.GetIdentityTimeout(),
	)

	app := fiber.New(fiber.Config{
		AppName:      "formum.link",
		ErrorHandler: apiErrorHandler,
	})

	routes.SetupRoutes(app, identityClient)

	// Graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdownChan
		configslog.SLog.Info("Kapatma sinyali alındı, sunucu durduruluyor...")
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Sunucu kapatılırken hata oluştu", zap.Error(err))
		}
	}()

	addr := configs.GetPort()
	configslog.SLog.Infof("Sunucu %s adresinde dinliyor", addr)
	if err := app.Listen(addr); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}

	configslog.SLog.Info("Sunucu durduruldu.")
}

func apiErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Sunucu hatası"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code == fiber.StatusInternalServerError {
		configslog.Log.Error("İstek işlenirken beklenmeyen hata",
			zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
