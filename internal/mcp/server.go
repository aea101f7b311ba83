// Package mcp exposes the knowledge base to AI agents as Model Context
// Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nickcecere/barnsbot/internal/fs"
	"github.com/nickcecere/barnsbot/internal/ingest"
	"github.com/nickcecere/barnsbot/internal/llm"
	"github.com/nickcecere/barnsbot/internal/store"
	"github.com/nickcecere/barnsbot/internal/upstream"
)

// ServerName is the implementation name reported to clients.
const ServerName = "barnsbot"

// Tool names.
const (
	ToolAsk    = "barnsbot_ask"
	ToolStatus = "barnsbot_status"
	ToolIngest = "barnsbot_ingest"
)

// Backend is what the tools operate on. All parts share one store id.
type Backend struct {
	Relay    *llm.Relay
	Admin    *store.Admin
	Pipeline *ingest.Pipeline

	// Walk configures directory expansion for the ingest tool. Extensions
	// is forced to the supported document types.
	Walk fs.WalkOptions
}

// AskArgs are the barnsbot_ask arguments.
type AskArgs struct {
	Question string `json:"question" jsonschema:"The question in natural language"`
}

// StatusArgs are the barnsbot_status arguments. The tool takes none.
type StatusArgs struct{}

// IngestArgs are the barnsbot_ingest arguments.
type IngestArgs struct {
	Path string `json:"path,omitempty" jsonschema:"File or directory to upload. Defaults to the working directory"`
}

// tools holds the handlers registered on the server.
type tools struct {
	backend Backend
}

// NewServer creates an MCP server with the barnsbot tools registered. Run it
// with a transport, usually &mcp.StdioTransport{}.
func NewServer(backend Backend, version string) *mcp.Server {
	backend.Walk.Extensions = ingest.Extensions()
	t := &tools{backend: backend}

	s := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, &mcp.ServerOptions{
		Logger: slog.New(log.Default()),
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolAsk,
		Description: "Answer a question using only the company documents in the knowledge base. Replies \"" + llm.NotFoundReply + "\" when the documents do not cover it.",
	}, t.ask)

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolStatus,
		Description: "List the documents attached to the active vector store.",
	}, t.status)

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolIngest,
		Description: "Upload a document, or every supported document under a directory, to the knowledge base. Supported: " + strings.Join(ingest.Extensions(), ", ") + ".",
	}, t.ingest)

	log.Debug("MCP tools registered", "store", backend.Admin.ActiveID())
	return s
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

func (t *tools) ask(ctx context.Context, req *mcp.CallToolRequest, args AskArgs) (*mcp.CallToolResult, any, error) {
	answer, err := t.backend.Relay.Ask(ctx, args.Question)
	if errors.Is(err, llm.ErrEmptyQuestion) {
		return textResult("Error: question is required", true), nil, nil
	}
	if err != nil {
		msg, _, _ := upstream.Describe(err)
		return textResult("Error: "+msg, true), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(answer.Reply())
	if len(answer.Sources) > 0 {
		sb.WriteString("\n\nSources: ")
		sb.WriteString(strings.Join(answer.Sources, ", "))
	}
	return textResult(sb.String(), false), nil, nil
}

func (t *tools) status(ctx context.Context, req *mcp.CallToolRequest, _ StatusArgs) (*mcp.CallToolResult, any, error) {
	status, err := t.backend.Admin.Status(ctx)
	if err != nil {
		msg, _, _ := upstream.Describe(err)
		return textResult("Error: "+msg, true), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Vector store %s has %d file(s).\n", status.StoreID, status.Count)
	for _, f := range status.Files {
		fmt.Fprintf(&sb, "- %s (%s, %d bytes)", f.ID, f.Status, f.UsageBytes)
		if f.LastError != nil {
			fmt.Fprintf(&sb, ": %s", f.LastError.Message)
		}
		sb.WriteString("\n")
	}
	return textResult(sb.String(), false), nil, nil
}

func (t *tools) ingest(ctx context.Context, req *mcp.CallToolRequest, args IngestArgs) (*mcp.CallToolResult, any, error) {
	path := args.Path
	if path == "" {
		path = "."
	}

	files, err := fs.Gather([]string{path}, t.backend.Walk)
	if err != nil {
		return textResult("Error: "+err.Error(), true), nil, nil
	}
	if len(files) == 0 {
		return textResult("No supported documents found.", true), nil, nil
	}

	sources := make([]ingest.Source, 0, len(files))
	for _, f := range files {
		sources = append(sources, ingest.Source{OriginalName: filepath.Base(f.Path), Path: f.Path, Hash: f.Hash})
	}

	report, err := t.backend.Pipeline.Ingest(ctx, sources)
	if err != nil {
		return textResult("Error: "+err.Error(), true), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(report.Message())
	sb.WriteString("\n")
	for _, r := range report.Results {
		if r.OK {
			fmt.Fprintf(&sb, "+ %s (%s)\n", r.OriginalName, r.FileID)
		} else {
			fmt.Fprintf(&sb, "! %s: %s\n", r.OriginalName, r.Error)
		}
	}
	return textResult(sb.String(), report.AllFailed()), nil, nil
}
