// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp exposes the council over the Model Context Protocol, so agent
// hosts can summon a debate as a single tool call.
package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "council"

// DebateRequest carries the arguments of one council_debate call.
type DebateRequest struct {
	Question string `json:"question"`
	Rounds   int    `json:"rounds,omitempty"`
	Models   string `json:"models,omitempty"`
}

// DebateFunc runs the full selection, debate, and synthesis pipeline and
// returns the synthesized answer.
type DebateFunc func(ctx context.Context, req DebateRequest) (string, error)

// Server hosts the council MCP tools.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server advertising the council_debate tool.
func NewServer(version string, debate DebateFunc) *Server {
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	s.AddTool(debateTool(), debateHandler(debate))
	return &Server{mcpServer: s}
}

// ServeStdio serves requests over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func debateTool() mcp.Tool {
	return mcp.NewTool(
		"council_debate",
		mcp.WithDescription("Run a multi-round debate across several LLM backends and return the synthesized answer"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question for the council to debate"),
		),
		mcp.WithNumber("rounds",
			mcp.Description("Debate rounds before synthesis; defaults to the configured count"),
			mcp.Min(1),
		),
		mcp.WithString("models",
			mcp.Description("Comma-separated backend names overriding the default panel"),
		),
	)
}

func debateHandler(debate DebateFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req DebateRequest
		if err := request.BindArguments(&req); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid debate arguments", err), nil
		}
		if strings.TrimSpace(req.Question) == "" {
			return mcp.NewToolResultError("question is required"), nil
		}

		answer, err := debate(ctx, req)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("debate failed", err), nil
		}
		return mcp.NewToolResultText(answer), nil
	}
}
