// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hylla/flytta/internal/adapters/server/common"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the board tools.
func NewHandler(cfg Config, board common.BoardService) (*Handler, error) {
	if board == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerBoardSnapshotTool(mcpSrv, board)
	registerMoveTools(mcpSrv, board)
	registerColumnLimitsTool(mcpSrv, board)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "flytta"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerBoardSnapshotTool registers the `flytta.board_snapshot` tool.
func registerBoardSnapshotTool(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"flytta.board_snapshot",
			mcp.WithDescription("Return the full board: columns, swimlanes, and cards in display order."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			snapshot, err := board.Board(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(snapshot)
			if err != nil {
				return nil, fmt.Errorf("encode board_snapshot result: %w", err)
			}
			return result, nil
		},
	)
}

// registerMoveTools registers `flytta.move_card` and `flytta.move_column`.
func registerMoveTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"flytta.move_card",
			mcp.WithDescription("Move one card to a target column, swimlane, and index. Stale references are reported as applied=false."),
			mcp.WithString("card_id", mcp.Required(), mcp.Description("Card identifier")),
			mcp.WithString("to_column_id", mcp.Required(), mcp.Description("Destination column identifier")),
			mcp.WithString("to_swimlane_id", mcp.Description("Destination swimlane identifier (empty for the unlaned group)")),
			mcp.WithNumber("to_index", mcp.Description("Destination index within the group; clamped to valid bounds")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			cardID, err := req.RequireString("card_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			toColumnID, err := req.RequireString("to_column_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			result, err := board.MoveCard(ctx, common.MoveCardRequest{
				CardID:       cardID,
				ToColumnID:   toColumnID,
				ToSwimlaneID: req.GetString("to_swimlane_id", ""),
				ToIndex:      req.GetInt("to_index", 0),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			payload, err := mcp.NewToolResultJSON(result)
			if err != nil {
				return nil, fmt.Errorf("encode move_card result: %w", err)
			}
			return payload, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"flytta.move_column",
			mcp.WithDescription("Move one column to a target display index. Unknown columns are reported as applied=false."),
			mcp.WithString("column_id", mcp.Required(), mcp.Description("Column identifier")),
			mcp.WithNumber("to_index", mcp.Description("Destination display index; clamped to valid bounds")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			columnID, err := req.RequireString("column_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			result, err := board.MoveColumn(ctx, common.MoveColumnRequest{
				ColumnID: columnID,
				ToIndex:  req.GetInt("to_index", 0),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			payload, err := mcp.NewToolResultJSON(result)
			if err != nil {
				return nil, fmt.Errorf("encode move_column result: %w", err)
			}
			return payload, nil
		},
	)
}

// registerColumnLimitsTool registers the `flytta.column_limits` tool.
func registerColumnLimitsTool(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"flytta.column_limits",
			mcp.WithDescription("Report card counts against each column's advisory WIP limit."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			limits, err := board.ColumnLimits(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"columns": limits})
			if err != nil {
				return nil, fmt.Errorf("encode column_limits result: %w", err)
			}
			return result, nil
		},
	)
}

// toolResultFromError renders adapter errors as MCP tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not found: " + err.Error())
	case errors.Is(err, common.ErrServiceUnavailable):
		return mcp.NewToolResultError("unavailable: " + err.Error())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
