package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/psdshow/vanilla/internal/adapters/driven/upload"
	"github.com/psdshow/vanilla/internal/adapters/driving/tui"
	"github.com/psdshow/vanilla/internal/logger"
)

// tuiLogName is the file verbose logs go to while the TUI owns the terminal.
const tuiLogName = "vanilla-tui.log"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive editor",
	Long: `Launch the interactive terminal editor.

Documents open in an editor where URLs and files are embedded in the
background. Each embed shows a loading placeholder until it resolves.

Controls:
  ↑/k, ↓/j - Move the caret
  i        - Insert text
  e        - Embed a URL
  o        - Upload a file (drag it into the terminal)
  x        - Delete the node before the caret
  u / r    - Undo / redo
  s        - Save
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the wired services.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Documents: documentService,
		Settings:  settingsService,
		Embeds:    embedFactory,
		NewEngine: engineFactory,
		ReadFile:  upload.ReadFile,
	}
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panicked: %v", r)
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	restore := redirectLogs(cmd)
	defer restore()

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLogs keeps log lines off the alternate screen. Verbose logs are
// appended to a file in the temp directory; otherwise they are discarded.
func redirectLogs(cmd *cobra.Command) (restore func()) {
	restore = func() { logger.SetOutput(os.Stderr) }
	if !logger.IsVerbose() {
		logger.SetOutput(io.Discard)
		return restore
	}

	path := filepath.Join(os.TempDir(), tuiLogName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		logger.SetOutput(io.Discard)
		return restore
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Logging to %s\n", path)
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}
}
