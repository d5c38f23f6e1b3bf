package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/crm"
)

func registerTools(server *mcp.Server, desk *crm.Desk) {
	registerLog(server, desk)
	registerEdit(server, desk)
	registerSearch(server, desk)
	registerSentiment(server, desk)
	registerFollowup(server, desk)
}
