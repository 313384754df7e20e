package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"mailpilot/compose"
	"mailpilot/config"
	"mailpilot/handlers/api"
	"mailpilot/mailbox"
	"mailpilot/middleware"
	"mailpilot/pipeline"
	"mailpilot/storage"
	"mailpilot/utils"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	processCount := flag.Int("process", 0, "process N unread emails and exit instead of serving")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		utils.Log.SetLevel(utils.DEBUG)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	store, err := storage.NewStore(cfg.Output.Dir)
	if err != nil {
		utils.Log.Error("Could not create output directory: %v", err)
		os.Exit(1)
	}

	dial := func() (mailbox.Session, error) {
		return mailbox.Connect(cfg.IMAP.Server, cfg.IMAP.Port,
			cfg.Credentials.Address, cfg.Credentials.Password)
	}

	composer := compose.New(cfg.Compose.SignerName)
	writer := mailbox.NewDraftWriter(cfg.Folders.Drafts, cfg.Folders.AllMail)
	runner := &pipeline.Runner{
		Store:    store,
		Writer:   writer,
		Composer: composer,
		From:     cfg.Credentials.Address,
		Dial:     dial,
	}

	if *processCount > 0 {
		summary, err := runner.Run(*processCount)
		if err != nil {
			utils.Log.Error("Batch failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Processed %d emails: %d responses, %d drafts saved, %d errors\n",
			summary.Processed, summary.Responses, summary.Drafts, summary.Errors)
		return
	}

	app := fiber.New(fiber.Config{
		AppName: "mailpilot",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	emails := api.NewEmailHandler(store, writer, composer, runner,
		cfg.Credentials.Address, cfg.Folders.Trash, dial)

	apiGroup := app.Group("/api", middleware.RateLimiter(100, time.Minute))
	apiGroup.Post("/fetch-emails", emails.HandleFetchEmails)
	apiGroup.Post("/save-draft", emails.HandleSaveDraft)
	apiGroup.Post("/mark-as-read/:id", emails.HandleMarkRead)
	apiGroup.Post("/mark-as-unread/:id", emails.HandleMarkUnread)
	apiGroup.Post("/star/:id", emails.HandleStar)
	apiGroup.Delete("/emails/:id", emails.HandleDelete)
	apiGroup.Get("/thread-history", emails.HandleThreadHistory)
	apiGroup.Post("/reply", emails.HandleReply)
	apiGroup.Post("/process", emails.HandleProcess)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	utils.Log.Info("Listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		utils.Log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
