package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change where embeds are resolved and uploads are stored.

Settings are stored in ~/.vanilla/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting by key. List values are comma separated.

Run 'vanilla settings keys' for the accepted keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set the forum API token",
	Long:  `Prompt for the forum API token without echoing it. An empty token clears it.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", valueOrUnset(settings.API.BaseURL))
	if settings.API.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.API.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	if settings.API.RequestsPerMinute > 0 {
		cmd.Printf("  Rate limit: %d requests/minute\n", settings.API.RequestsPerMinute)
	} else {
		cmd.Printf("  Rate limit: none\n")
	}
	cmd.Println()

	cmd.Println("[Scrape]")
	cmd.Printf("  Mode: %s\n", settings.Scrape.Mode.Description())
	cmd.Println()

	cmd.Println("[Upload]")
	cmd.Printf("  Backend: %s\n", settings.Upload.Backend.Description())
	cmd.Printf("  Max size: %d bytes\n", settings.Upload.MaxBytes)
	cmd.Printf("  Allowed types: %s\n", valueOrUnset(strings.Join(settings.Upload.AllowedTypes, ", ")))
	if settings.Upload.AzureConnectionString != "" {
		cmd.Printf("  Azure connection: %s\n", maskAPIKey(settings.Upload.AzureConnectionString))
		cmd.Printf("  Azure container: %s\n", settings.Upload.AzureContainer)
	}
	cmd.Println()

	cmd.Println("[Embeds]")
	cmd.Printf("  Reject duplicates: %s\n", yesNo(settings.Embeds.RejectDuplicates))
	cmd.Printf("  Video embeds: %s\n", yesNo(settings.Embeds.VideoEnabled))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings %w", errNotConfigured)
	}

	cmd.Print("Enter API token: ")
	token := readPassword()
	cmd.Println()

	if err := settingsService.Set("api.token", token); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	if token == "" {
		cmd.Println("API token cleared.")
	} else {
		cmd.Printf("API token set: %s\n", maskAPIKey(token))
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
