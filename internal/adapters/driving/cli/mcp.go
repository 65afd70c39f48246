package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psdshow/vanilla/internal/adapters/driven/upload"
	"github.com/psdshow/vanilla/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can edit documents.

The server exposes tools to create documents, append text, embed URLs and
upload files, and resources listing documents, their rendered content and
their embed history. Each tool call waits for its embeds to settle before
saving; embeds still loading at the timeout are left out.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode
  vanilla mcp serve

  # HTTP mode
  vanilla mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// mcpPorts builds the MCP ports from the wired services.
func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Documents: documentService,
		Editor:    editorService,
		ReadFile:  upload.ReadFile,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
