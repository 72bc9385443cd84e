// Package server assembles the catalog HTTP application.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/wichananm65/craft-catalog/internal/admin"
	"github.com/wichananm65/craft-catalog/internal/catalog"
	"github.com/wichananm65/craft-catalog/internal/enquiry"
	"github.com/wichananm65/craft-catalog/internal/logging"
	"github.com/wichananm65/craft-catalog/internal/product"
	"github.com/wichananm65/craft-catalog/internal/upload"
	"go.uber.org/zap"
)

// BodyLimit leaves room for a 5 MiB image plus form fields.
const BodyLimit = 6 << 20

type Deps struct {
	Products   *product.Service
	Enquiries  *enquiry.Service
	Admin      *admin.Handler
	Classifier *catalog.Classifier

	FrontendOrigin string
	UploadDir      string
	Log            *zap.Logger
}

func New(d Deps) *fiber.App {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "craft-catalog",
		BodyLimit:             BodyLimit,
		ReadTimeout:           30 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logging.Middleware(log))
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "0",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginResourcePolicy: "cross-origin",
	}))
	setupCORS(app, d.FrontendOrigin)
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	if d.UploadDir != "" {
		app.Static(upload.URLPrefix, d.UploadDir, fiber.Static{MaxAge: 86400})
	}

	catalog.NewHandler(d.Products, d.Classifier, log).RegisterPublicRoutes(app)
	d.Admin.RegisterPublicRoutes(app)

	guard := d.Admin.Guard()
	product.NewHandler(d.Products, log).RegisterProtectedRoutes(app, guard)
	enquiryHandler := enquiry.NewHandler(d.Enquiries, log)
	enquiryHandler.RegisterPublicRoutes(app)
	enquiryHandler.RegisterProtectedRoutes(app, guard)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})
	return app
}

func setupCORS(app *fiber.App, origin string) {
	if origin == "" || origin == "*" {
		app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
		return
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": msg})
	}
}
