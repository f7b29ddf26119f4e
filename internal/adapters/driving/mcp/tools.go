package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/dto"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// RepositoryInput is the input schema for tools that take a repository.
type RepositoryInput struct {
	Repository string `json:"repository" jsonschema:"the repository as owner/name, owner/name@ref or a github.com URL"`
}

// HistoryInput is the input schema for the list_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of generations to return (default 20)"`
}

// HistoryOutput is the output schema for the list_history tool.
type HistoryOutput struct {
	Generations []dto.HistoryEntry `json:"generations"`
	Count       int                `json:"count"`
}

// defaultHistoryLimit caps list_history when no limit is given.
const defaultHistoryLimit = 20

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_repository",
		Description: "Classify a GitHub repository: languages, frameworks, project type and dependencies",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_readme",
		Description: "Generate a README.md draft for a GitHub repository",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_history",
		Description: "List READMEs generated by this server, newest first",
	}, s.handleListHistory)
}

// handleAnalyze handles the analyze_repository tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RepositoryInput,
) (*mcp.CallToolResult, dto.Preview, error) {
	ref, err := domain.ParseRepoRef(input.Repository)
	if err != nil {
		return nil, dto.Preview{}, err
	}

	preview, err := s.ports.Readme.Preview(ctx, ref, nil)
	if err != nil {
		return nil, dto.Preview{}, err
	}

	return nil, dto.NewPreview(preview), nil
}

// handleGenerate handles the generate_readme tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RepositoryInput,
) (*mcp.CallToolResult, dto.Generation, error) {
	ref, err := domain.ParseRepoRef(input.Repository)
	if err != nil {
		return nil, dto.Generation{}, err
	}

	gen, err := s.ports.Readme.Generate(ctx, ref, nil)
	if err != nil {
		return nil, dto.Generation{}, err
	}

	return nil, dto.NewGeneration(gen), nil
}

// handleListHistory handles the list_history tool invocation.
func (s *Server) handleListHistory(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{Generations: []dto.HistoryEntry{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	gens := s.ports.History.List()
	if len(gens) > limit {
		gens = gens[:limit]
	}

	entries := dto.NewHistory(gens)
	return nil, HistoryOutput{Generations: entries, Count: len(entries)}, nil
}
