package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/psdshow/vanilla/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"document"},
	Short:   "Manage documents",
}

var documentNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create an empty document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentNew,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Print a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentAppendCmd = &cobra.Command{
	Use:   "append [document-id] [text...]",
	Short: "Append a line of text at the caret",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDocumentAppend,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentNewCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentAppendCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentNew(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document %w", errNotConfigured)
	}
	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	doc, err := documentService.Create(commandContext(cmd), title)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	cmd.Printf("Created %s (%s)\n", doc.Title, doc.ID)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return fmt.Errorf("document %w", errNotConfigured)
	}

	docs, err := documentService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents.")
		return nil
	}
	for i := range docs {
		cmd.Printf("%s  %-30s  %s\n", docs[i].ID, docs[i].Title, docs[i].UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document %w", errNotConfigured)
	}

	doc, err := documentService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	printDocument(cmd, doc)
	return nil
}

func runDocumentAppend(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], func(s *sessionRun) error {
		return s.session.InsertText(s.ctx, strings.Join(args[1:], " "))
	})
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return fmt.Errorf("document %w", errNotConfigured)
	}
	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

// printDocument writes the title and one numbered line per node.
func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("%s (%s)\n", doc.Title, doc.ID)
	var lines []string
	if documentService != nil {
		lines = documentService.Render(doc)
	}
	if len(lines) == 0 {
		cmd.Println("  (empty)")
		return
	}
	for i, line := range lines {
		cmd.Printf("%3d  %s\n", i+1, line)
	}
}
