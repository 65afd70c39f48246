// Command vanilla edits documents with asynchronously resolved embeds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/psdshow/vanilla/internal/adapters/driven/config/file"
	"github.com/psdshow/vanilla/internal/adapters/driven/document/arena"
	"github.com/psdshow/vanilla/internal/adapters/driven/scrape/local"
	"github.com/psdshow/vanilla/internal/adapters/driven/storage/sqlite"
	"github.com/psdshow/vanilla/internal/adapters/driven/upload"
	"github.com/psdshow/vanilla/internal/adapters/driven/upload/azblob"
	"github.com/psdshow/vanilla/internal/adapters/driven/vanillaapi"
	"github.com/psdshow/vanilla/internal/adapters/driving/cli"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/services"
	"github.com/psdshow/vanilla/internal/logger"
)

// version is set via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore(os.Getenv("VANILLA_HOME"))
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Invalid settings, using defaults: %v", err)
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	store, err := sqlite.NewStore(os.Getenv("VANILLA_DATA"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	documentService := services.NewDocumentService(store.DocumentStore(), store.EmbedLogStore())

	scraper, uploader, err := mediaBackends(settings)
	if err != nil {
		return err
	}

	var newHelper func(driven.UploadHooks) driven.UploadHelper
	if uploader != nil {
		limits := settings.Upload
		newHelper = func(hooks driven.UploadHooks) driven.UploadHelper {
			return upload.NewHelper(uploader, hooks, limits)
		}
	}

	editorService := services.NewEditorService(services.EditorConfig{
		Documents:       documentService,
		NewEngine:       func(nodes []domain.Node) driven.DocumentEngine { return arena.NewEngine(nodes...) },
		Scraper:         scraper,
		NewUploadHelper: newHelper,
		Options: services.EmbedOptions{
			RejectDuplicates: settings.Embeds.RejectDuplicates,
			VideoEnabled:     settings.Embeds.VideoEnabled,
			History:          store.EmbedLogStore(),
		},
	})

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Documents: documentService,
		Settings:  settingsService,
		Editor:    editorService,
		Embeds:    editorService.NewEmbeds,
		NewEngine: func(nodes []domain.Node) driven.HistoryEngine { return arena.NewEngine(nodes...) },
	})

	return cli.Execute(ctx)
}

// mediaBackends builds the scraper and uploader selected by settings.
// The uploader is nil when the API backend has no base URL.
func mediaBackends(settings *domain.AppSettings) (driven.MediaScraper, driven.MediaUploader, error) {
	var client *vanillaapi.Client
	if settings.API.BaseURL != "" {
		c, err := vanillaapi.NewClient(vanillaapi.Config{
			BaseURL:           settings.API.BaseURL,
			Token:             settings.API.Token,
			RequestsPerMinute: settings.API.RequestsPerMinute,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating api client: %w", err)
		}
		client = c
	}

	var scraper driven.MediaScraper = local.New()
	if settings.Scrape.Mode == domain.ScrapeModeAPI && client != nil {
		scraper = client
	}

	var uploader driven.MediaUploader
	switch settings.Upload.Backend {
	case domain.UploadBackendAzureBlob:
		u, err := azblob.New(settings.Upload.AzureConnectionString, settings.Upload.AzureContainer)
		if err != nil {
			return nil, nil, fmt.Errorf("creating blob uploader: %w", err)
		}
		uploader = u
	default:
		if client != nil {
			uploader = client
		} else {
			logger.Debug("No api.base_url configured; uploads are disabled")
		}
	}
	return scraper, uploader, nil
}
