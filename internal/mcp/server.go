package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"penpals/internal/session"
)

type Server struct {
	sessions *session.Manager
	mcp      *sdk.Server
}

func NewServer(sessions *session.Manager, version string) *Server {
	s := &Server{
		sessions: sessions,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "penpals",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
