package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/crm"
)

func registerSentiment(server *mcp.Server, desk *crm.Desk) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_sentiment",
		Description: "Analyze if the doctor's tone was Positive, Neutral, or Concerned.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input crm.TextInput) (*mcp.CallToolResult, crm.TextOutput, error) {
		return nil, crm.TextOutput{Text: desk.AnalyzeSentiment(input.Text)}, nil
	})
}
