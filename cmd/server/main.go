package main

import (
	"log"
	"time"

	"github.com/Leonardo2020-col/qr-system-pay/internal/application"
	"github.com/Leonardo2020-col/qr-system-pay/internal/config"
	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/Leonardo2020-col/qr-system-pay/internal/email"
	"github.com/Leonardo2020-col/qr-system-pay/internal/infrastructure/db"
	"github.com/Leonardo2020-col/qr-system-pay/internal/infrastructure/repository"
	handlers "github.com/Leonardo2020-col/qr-system-pay/internal/interfaces/http"
	"github.com/Leonardo2020-col/qr-system-pay/internal/qr"
	"github.com/Leonardo2020-col/qr-system-pay/internal/scan"
	"github.com/Leonardo2020-col/qr-system-pay/internal/scheduler"
	services "github.com/Leonardo2020-col/qr-system-pay/internal/service"
	"github.com/Leonardo2020-col/qr-system-pay/internal/sheets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Open(cfg.GetDBConnString())
	if err != nil {
		logger.Fatal("error al conectar con la base de datos", zap.Error(err))
	}
	defer conn.Close()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length,Content-Disposition",
		MaxAge:           86400,
	}))

	// Almacenamiento de fotos (opcional)
	var fotos domain.FotoStorage
	if cfg.S3BucketName != "" {
		bucket, err := services.NewFotoBucket(cfg.S3BucketName, cfg.AWSRegion)
		if err != nil {
			logger.Warn("almacenamiento de fotos deshabilitado", zap.Error(err))
		} else {
			fotos = bucket
		}
	}

	// Espejo en hoja de cálculo (opcional)
	var syncer application.Syncer
	if cfg.SheetsEnabled() {
		syncer = sheets.NewClient(cfg.SpreadsheetID, sheets.StaticToken(cfg.SheetsAccessToken), logger)
	}

	// Personas
	personaRepo := repository.NewPersonaRepository(conn, logger)
	estatusRepo := repository.NewEstatusRepository(conn, logger)
	personaService := application.NewPersonaService(personaRepo, estatusRepo, fotos, syncer, logger)
	personaHandler := handlers.NewPersonaHandler(personaService)

	// Estatus mensual
	estatusService := application.NewEstatusService(estatusRepo, logger)
	estatusHandler := handlers.NewEstatusHandler(estatusService)

	// Email Client
	var emailClient *email.Client
	if cfg.EmailEnabled() {
		emailClient, err = email.NewClient(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.SMTPFromName,
			cfg.SMTPFromEmail,
		)
		if err != nil {
			logger.Warn("envío de correos deshabilitado", zap.Error(err))
			emailClient = nil
		}
	}

	// Códigos QR
	codec := qr.NewCodec(logger)
	qrHandler := handlers.NewQRHandler(personaService, codec, emailClient)

	// Escaneo
	pipeline := scan.NewPipeline(codec, personaService, logger)
	limiter := application.NewScanLimiter(time.Minute, 30)
	scanHandler := handlers.NewScanHandler(pipeline, limiter)

	// Sincronización
	syncHandler := handlers.NewSyncHandler(personaService)

	api := app.Group("/api")

	// Rutas de personas
	personas := api.Group("/personas")
	personas.Get("/", personaHandler.GetPersonas)
	personas.Get("/buscar", personaHandler.BuscarPorDNI)
	personas.Post("/", personaHandler.CreatePersona)
	personas.Get("/:id", personaHandler.GetPersonaByID)
	personas.Put("/:id", personaHandler.UpdatePersona)
	personas.Delete("/:id", personaHandler.DeletePersona)

	// Rutas de estatus mensual
	personas.Get("/:id/estatus", estatusHandler.GetAnio)
	personas.Get("/:id/estatus/:anio/:mes", estatusHandler.GetMes)
	personas.Put("/:id/estatus/:anio/:mes", estatusHandler.SetMes)
	personas.Post("/:id/estatus/:anio/:mes/toggle", estatusHandler.ToggleMes)
	api.Get("/estatus", estatusHandler.GetMatriz)

	// Rutas de códigos QR
	personas.Get("/:id/qr", qrHandler.GenerarQR)
	personas.Post("/:id/qr/email", qrHandler.EnviarQRPorEmail)

	// Rutas de escaneo
	escaneo := api.Group("/scan")
	escaneo.Post("/", scanHandler.Escanear)
	escaneo.Post("/reset", scanHandler.Reiniciar)

	// Rutas de sincronización
	api.Post("/sync", syncHandler.Sincronizar)
	api.Get("/export", syncHandler.ExportarExcel)

	// Sincronización periódica
	if syncer != nil {
		syncScheduler := scheduler.NewSyncScheduler(personaService, cfg.SyncInterval, logger)
		syncScheduler.Start()
		defer syncScheduler.Stop()
	}

	logger.Info("servidor iniciado", zap.String("puerto", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("error al iniciar el servidor", zap.Error(err))
	}
}
