package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/psdshow/vanilla/internal/adapters/driven/upload"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driving"
)

var (
	embedTimeout time.Duration
	pasteName    string
	historyLimit int
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Insert embeds into a document",
	Long: `Insert link previews and uploaded media into a document.

Each embed is inserted at the caret as a loading placeholder and replaced
once its result arrives. Failures are written into the document as inline
errors. The command waits for every embed to settle, then saves.`,
}

var embedURLCmd = &cobra.Command{
	Use:   "url [document-id] [url...]",
	Short: "Embed one or more URLs",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEmbedURL,
}

var embedUploadCmd = &cobra.Command{
	Use:   "upload [document-id] [file...]",
	Short: "Upload files and embed them",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEmbedUpload,
}

var embedPasteCmd = &cobra.Command{
	Use:   "paste [document-id]",
	Short: "Upload data piped on stdin and embed it",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmbedPaste,
}

var embedWatchCmd = &cobra.Command{
	Use:   "watch [document-id] [directory]",
	Short: "Upload files moved into a directory",
	Long: `Watch a directory and upload every file moved into it.

The document is saved after each upload settles. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbedWatch,
}

var embedHistoryCmd = &cobra.Command{
	Use:   "history [document-id]",
	Short: "Show recent embed results for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmbedHistory,
}

func init() {
	embedCmd.PersistentFlags().DurationVar(&embedTimeout, "timeout", 30*time.Second,
		"how long to wait for embeds to settle")
	embedPasteCmd.Flags().StringVar(&pasteName, "name", "", "file name for the pasted data")
	embedHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")

	embedCmd.AddCommand(embedURLCmd)
	embedCmd.AddCommand(embedUploadCmd)
	embedCmd.AddCommand(embedPasteCmd)
	embedCmd.AddCommand(embedWatchCmd)
	embedCmd.AddCommand(embedHistoryCmd)
	rootCmd.AddCommand(embedCmd)
}

// sessionRun is the state handed to a withSession callback.
type sessionRun struct {
	ctx     context.Context
	session driving.EditSession
}

// withSession opens documentID, runs fn, waits for embeds to settle and
// saves. Embeds still pending at the timeout are dropped from the save.
func withSession(cmd *cobra.Command, documentID string, fn func(*sessionRun) error) error {
	if editorService == nil {
		return fmt.Errorf("editor %w", errNotConfigured)
	}
	ctx := commandContext(cmd)

	session, err := editorService.Open(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer session.Close()

	if err := fn(&sessionRun{ctx: ctx, session: session}); err != nil {
		return err
	}

	if err := waitForEmbeds(ctx, cmd, session); err != nil {
		return err
	}

	doc, err := session.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	printDocument(cmd, doc)
	return nil
}

func waitForEmbeds(ctx context.Context, cmd *cobra.Command, session driving.EditSession) error {
	timeout := embedTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := session.Wait(waitCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		pending, _ := session.Pending(ctx) //nolint:errcheck // Best-effort report
		cmd.PrintErrf("Timed out after %s; %d embed(s) still loading were not saved\n", timeout, len(pending))
		return nil
	}
	return err
}

func runEmbedURL(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], func(s *sessionRun) error {
		for _, url := range args[1:] {
			if err := s.session.ScrapeMedia(s.ctx, url); err != nil {
				return fmt.Errorf("failed to embed %s: %w", url, err)
			}
		}
		return nil
	})
}

func runEmbedUpload(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], func(s *sessionRun) error {
		for _, path := range args[1:] {
			file, err := upload.ReadFile(path)
			if err != nil {
				return err
			}
			if err := s.session.UploadFile(s.ctx, file); err != nil {
				return fmt.Errorf("failed to upload %s: %w", path, err)
			}
		}
		return nil
	})
}

func runEmbedPaste(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("nothing to paste: pipe data on stdin")
	}

	var maxBytes int64
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			maxBytes = settings.Upload.MaxBytes
		}
	}

	file, err := upload.Paste(in, pasteName, maxBytes)
	if err != nil {
		return err
	}
	return withSession(cmd, args[0], func(s *sessionRun) error {
		return s.session.UploadFile(s.ctx, file)
	})
}

func runEmbedWatch(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], func(s *sessionRun) error {
		watchCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
		defer stop()

		saver := startSaver(watchCtx, s.session, cmd.ErrOrStderr())
		defer saver.stop()

		watcher := upload.NewDropWatcher(args[1], func(file *domain.File) error {
			if err := s.session.UploadFile(s.ctx, file); err != nil {
				return err
			}
			cmd.Printf("Uploading %s\n", file.Name)
			saver.trigger()
			return nil
		})
		cmd.Printf("Watching %s (Ctrl+C to stop)\n", watcher.Dir())
		return watcher.Watch(watchCtx, nil)
	})
}

// settledSaver saves a session once its embeds settle. Triggers that arrive
// while a save is pending are coalesced; saves never overlap.
type settledSaver struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session driving.EditSession
	errOut  io.Writer
	pending chan struct{}
	done    chan struct{}
}

// startSaver starts the saver goroutine. Stop must be called before the
// session is closed.
func startSaver(ctx context.Context, session driving.EditSession, errOut io.Writer) *settledSaver {
	ctx, cancel := context.WithCancel(ctx)
	s := &settledSaver{
		ctx:     ctx,
		cancel:  cancel,
		session: session,
		errOut:  errOut,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *settledSaver) trigger() {
	select {
	case s.pending <- struct{}{}:
	default:
	}
}

// stop abandons any save still waiting for embeds and returns once the
// saver goroutine has exited. The caller's final save covers what was skipped.
func (s *settledSaver) stop() {
	s.cancel()
	close(s.pending)
	<-s.done
}

func (s *settledSaver) run() {
	defer close(s.done)
	for range s.pending {
		if err := s.session.Wait(s.ctx); err != nil {
			continue
		}
		if _, err := s.session.Save(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(s.errOut, "save failed: %v\n", err)
		}
	}
}

func runEmbedHistory(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document %w", errNotConfigured)
	}

	entries, err := documentService.History(commandContext(cmd), args[0], historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No embed history.")
		return nil
	}
	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("%s  %-9s  %s", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Status, e.Key)
		if e.Message != "" {
			line += "  " + e.Message
		}
		cmd.Println(line)
	}
	return nil
}
