package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/crm"
)

func registerLog(server *mcp.Server, desk *crm.Desk) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a new interaction with an HCP. Use this when the user describes a meeting.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input crm.LogInput) (*mcp.CallToolResult, crm.TextOutput, error) {
		msg, err := desk.LogInteraction(ctx, input)
		if err != nil {
			return nil, crm.TextOutput{}, err
		}
		return nil, crm.TextOutput{Text: msg}, nil
	})
}
