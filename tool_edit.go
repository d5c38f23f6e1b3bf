package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/crm"
)

func registerEdit(server *mcp.Server, desk *crm.Desk) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_interaction",
		Description: "Update an existing interaction's summary. interaction_id MUST be an integer.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input crm.EditInput) (*mcp.CallToolResult, crm.TextOutput, error) {
		msg, err := desk.EditInteraction(ctx, input.InteractionID, input.NewSummary)
		if err != nil {
			return nil, crm.TextOutput{}, err
		}
		return nil, crm.TextOutput{Text: msg}, nil
	})
}
