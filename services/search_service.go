package services

import (
	"context"
	"strings"

	"fileshare/config"
	"fileshare/models"
	"fileshare/repositories"
)

const (
	ProvenanceOwn    = "own"
	ProvenanceShared = "shared"
)

type SearchResult struct {
	File models.File `json:"file"`
	// Provenance tags how the result was reachable: through ownership or
	// through the shared flag. The two partitions are disjoint because
	// ownership is exclusive.
	Provenance string `json:"provenance"`
}

type SearchOutput struct {
	OwnResults    []SearchResult `json:"own_results"`
	SharedResults []SearchResult `json:"shared_results"`
}

type SearchService interface {
	Search(ctx context.Context, requesterID uint, query string) (SearchOutput, error)
}

type searchService struct {
	files repositories.FileRepository
}

func NewSearchService(files repositories.FileRepository) SearchService {
	return &searchService{files: files}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func (s *searchService) Search(ctx context.Context, requesterID uint, query string) (SearchOutput, error) {
	out := SearchOutput{
		OwnResults:    []SearchResult{},
		SharedResults: []SearchResult{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		// A blank query never reaches the store.
		return out, nil
	}

	limit := config.AppConfig.Search.MaxResults
	in := repositories.SearchFilesInput{
		RequesterID: requesterID,
		Pattern:     "%" + escapeLike(strings.ToLower(query)) + "%",
		Limit:       limit,
	}

	owned, err := s.files.SearchOwned(ctx, nil, in)
	if err != nil {
		return SearchOutput{}, newStorageError("failed to search files", err)
	}
	shared, err := s.files.SearchShared(ctx, nil, in)
	if err != nil {
		return SearchOutput{}, newStorageError("failed to search files", err)
	}

	for _, file := range owned {
		out.OwnResults = append(out.OwnResults, SearchResult{File: file, Provenance: ProvenanceOwn})
	}
	for _, file := range shared {
		out.SharedResults = append(out.SharedResults, SearchResult{File: file, Provenance: ProvenanceShared})
	}
	return out, nil
}
