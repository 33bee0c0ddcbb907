package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"penpals/internal/session"
	"penpals/internal/story"
	"penpals/internal/summary"
)

type ListRegionsInput struct{}

type StartPlaythroughInput struct{}

type PlaythroughInput struct {
	PlaythroughID string `json:"playthrough_id" jsonschema:"playthrough id returned by start_playthrough"`
}

type SelectRegionInput struct {
	PlaythroughID string `json:"playthrough_id" jsonschema:"playthrough id returned by start_playthrough"`
	Region        string `json:"region" jsonschema:"region id to enter"`
}

type SubmitChoiceInput struct {
	PlaythroughID string `json:"playthrough_id" jsonschema:"playthrough id returned by start_playthrough"`
	Choice        string `json:"choice" jsonschema:"choice id on the current letter"`
}

type SubmitWalletOptionInput struct {
	PlaythroughID string `json:"playthrough_id" jsonschema:"playthrough id returned by start_playthrough"`
	Option        string `json:"option" jsonschema:"wallet option id on the current letter"`
}

type RegionOutput struct {
	ID      story.RegionID `json:"id"`
	Name    string         `json:"name"`
	Budget  int            `json:"budget"`
	Letters int            `json:"letters"`
}

type ListRegionsOutput struct {
	Regions []RegionOutput `json:"regions"`
}

type SummaryOutput struct {
	Finished bool             `json:"finished"`
	Summary  *summary.Summary `json:"summary,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_regions",
		Description: "List the regions on the map with their starting budgets",
	}, s.handleListRegions)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "start_playthrough",
		Description: "Start a new playthrough and return its initial view",
	}, s.handleStartPlaythrough)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "select_region",
		Description: "Enter a region from the map and open its first letter",
	}, s.handleSelectRegion)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "submit_choice",
		Description: "Reply to the current letter with one of its choices",
	}, s.handleSubmitChoice)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "submit_wallet_option",
		Description: "Resolve the current wallet event with one of its options",
	}, s.handleSubmitWalletOption)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "continue_beat",
		Description: "Move past the reply to the next letter or back to the map",
	}, s.handleContinue)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "restart_playthrough",
		Description: "Discard all progress and return to the map",
	}, s.handleRestart)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_playthrough",
		Description: "Return the current view of a playthrough",
	}, s.handleGetPlaythrough)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_summary",
		Description: "Return the end-of-game summary once every region is complete",
	}, s.handleGetSummary)
}

func (s *Server) handleListRegions(ctx context.Context, req *sdk.CallToolRequest, input ListRegionsInput) (*sdk.CallToolResult, ListRegionsOutput, error) {
	regions := s.sessions.Catalog().Regions()
	output := make([]RegionOutput, 0, len(regions))
	for _, region := range regions {
		output = append(output, RegionOutput{
			ID:      region.ID,
			Name:    region.Name,
			Budget:  region.Budget,
			Letters: len(region.Letters),
		})
	}
	return nil, ListRegionsOutput{Regions: output}, nil
}

func (s *Server) handleStartPlaythrough(ctx context.Context, req *sdk.CallToolRequest, input StartPlaythroughInput) (*sdk.CallToolResult, session.View, error) {
	p := s.sessions.Create()
	return nil, p.View(), nil
}

func (s *Server) handleSelectRegion(ctx context.Context, req *sdk.CallToolRequest, input SelectRegionInput) (*sdk.CallToolResult, session.View, error) {
	if input.Region == "" {
		return nil, session.View{}, fmt.Errorf("region is required")
	}
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, session.View{}, err
	}
	view, err := p.SelectRegion(story.RegionID(input.Region))
	if err != nil {
		return nil, session.View{}, err
	}
	return nil, view, nil
}

func (s *Server) handleSubmitChoice(ctx context.Context, req *sdk.CallToolRequest, input SubmitChoiceInput) (*sdk.CallToolResult, session.View, error) {
	if input.Choice == "" {
		return nil, session.View{}, fmt.Errorf("choice is required")
	}
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, session.View{}, err
	}
	view, err := p.SubmitChoice(input.Choice)
	if err != nil {
		return nil, session.View{}, err
	}
	return nil, view, nil
}

func (s *Server) handleSubmitWalletOption(ctx context.Context, req *sdk.CallToolRequest, input SubmitWalletOptionInput) (*sdk.CallToolResult, session.View, error) {
	if input.Option == "" {
		return nil, session.View{}, fmt.Errorf("option is required")
	}
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, session.View{}, err
	}
	view, err := p.SubmitWalletOption(input.Option)
	if err != nil {
		return nil, session.View{}, err
	}
	return nil, view, nil
}

func (s *Server) handleContinue(ctx context.Context, req *sdk.CallToolRequest, input PlaythroughInput) (*sdk.CallToolResult, session.View, error) {
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, session.View{}, err
	}
	view, err := p.Continue()
	if err != nil {
		return nil, session.View{}, err
	}
	return nil, view, nil
}

func (s *Server) handleRestart(ctx context.Context, req *sdk.CallToolRequest, input PlaythroughInput) (*sdk.CallToolResult, session.View, error) {
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, session.View{}, err
	}
	return nil, p.Restart(), nil
}

func (s *Server) handleGetPlaythrough(ctx context.Context, req *sdk.CallToolRequest, input PlaythroughInput) (*sdk.CallToolResult, session.View, error) {
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, session.View{}, err
	}
	return nil, p.View(), nil
}

func (s *Server) handleGetSummary(ctx context.Context, req *sdk.CallToolRequest, input PlaythroughInput) (*sdk.CallToolResult, SummaryOutput, error) {
	p, err := s.playthrough(input.PlaythroughID)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	view := p.View()
	return nil, SummaryOutput{Finished: view.Finished, Summary: view.Summary}, nil
}

func (s *Server) playthrough(id string) (*session.Playthrough, error) {
	if id == "" {
		return nil, fmt.Errorf("playthrough_id is required")
	}
	return s.sessions.Get(id)
}
