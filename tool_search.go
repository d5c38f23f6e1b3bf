package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/crm"
)

func registerSearch(server *mcp.Server, desk *crm.Desk) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "hcp_search",
		Description: "Search for existing HCP records by name.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input crm.SearchInput) (*mcp.CallToolResult, crm.TextOutput, error) {
		msg, err := desk.SearchHCPs(ctx, input.NameQuery)
		if err != nil {
			return nil, crm.TextOutput{}, err
		}
		return nil, crm.TextOutput{Text: msg}, nil
	})
}
