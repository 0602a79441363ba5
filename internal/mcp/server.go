package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"noteapp/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools for note operations
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Notes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes, newest first. Use this to see what has been written recently."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return (default: all)"),
			),
		),
		handleListNotes(svc),
	)

	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its numeric ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
		),
		handleGetNote(svc),
	)

	s.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Save a new note. Surrounding whitespace is trimmed; empty notes are rejected."),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Note text"),
			),
		),
		handleCreateNote(svc),
	)

	return s
}

func handleListNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		noteList, err := svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}

		if limit := req.GetInt("limit", 0); limit > 0 && limit < len(noteList) {
			noteList = noteList[:limit]
		}
		if noteList == nil {
			noteList = []*notes.Note{}
		}

		return jsonResult(noteList), nil
	}
}

func handleGetNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetByID(ctx, id)
		if errors.Is(err, notes.ErrNoteNotFound) {
			return mcp.NewToolResultError("note not found"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}

		return jsonResult(note), nil
	}
}

func handleCreateNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}

		note, err := svc.Create(ctx, content)
		if notes.IsValidation(err) {
			return mcp.NewToolResultError("content is required"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
		}

		return jsonResult(note), nil
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(svc *notes.Service) http.Handler {
	return server.NewStreamableHTTPServer(NewServer(svc))
}
