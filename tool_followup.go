package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/crm"
)

func registerFollowup(server *mcp.Server, desk *crm.Desk) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_followup",
		Description: "Generate a specific follow-up task summary.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input crm.FollowupInput) (*mcp.CallToolResult, crm.TextOutput, error) {
		return nil, crm.TextOutput{Text: desk.GenerateFollowup(input.Context)}, nil
	})
}
