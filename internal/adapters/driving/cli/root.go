// Package cli provides the vanilla command line.
//
// Commands reach the core through driving ports set with SetServices.
// Embed commands open an edit session per invocation: embeds are inserted,
// awaited, and the document is saved before the command exits.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
	"github.com/psdshow/vanilla/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

var (
	documentService driving.DocumentService
	settingsService driving.SettingsService
	editorService   driving.EditorService
	embedFactory    driving.EmbedFactory
	engineFactory   func([]domain.Node) driven.HistoryEngine
)

// errNotConfigured is returned by commands whose service was not wired.
var errNotConfigured = errors.New("service not configured")

// Services holds the driving ports used by commands.
type Services struct {
	Documents driving.DocumentService
	Settings  driving.SettingsService
	Editor    driving.EditorService
	Embeds    driving.EmbedFactory

	// NewEngine builds the document engine interactive commands edit.
	NewEngine func(nodes []domain.Node) driven.HistoryEngine
}

// SetServices wires the core into the command tree.
func SetServices(s Services) {
	documentService = s.Documents
	settingsService = s.Settings
	editorService = s.Editor
	embedFactory = s.Embeds
	engineFactory = s.NewEngine
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "vanilla",
	Short: "Embed links and media into documents",
	Long: `vanilla edits documents with rich embeds.

URLs are resolved into link previews, images and videos in the background,
and dropped or pasted files are uploaded and embedded. A loading placeholder
marks each embed until its result arrives.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
