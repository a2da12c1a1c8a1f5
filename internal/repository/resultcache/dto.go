package resultcache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/contenttype"
	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// entryDTO is the wire form of a cached result list.
type entryDTO struct {
	OrganizationID string      `json:"organization_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Results        []resultDTO `json:"results"`
}

type resultDTO struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	OrganizationID   string     `json:"organization_id"`
	OrganizationName string     `json:"organization_name,omitempty"`
	Category         string     `json:"category,omitempty"`
	Score            float64    `json:"score"`
	MatchedFields    []string   `json:"matched_fields,omitempty"`
	MatchedText      string     `json:"matched_text,omitempty"`
	URL              string     `json:"url"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// entry is a decoded shared-tier value.
type entry struct {
	organizationID string
	results        []result.Result
	createdAt      time.Time
}

func encodeEntry(organizationID string, results []result.Result, createdAt time.Time) ([]byte, error) {
	dto := entryDTO{
		OrganizationID: organizationID,
		CreatedAt:      createdAt,
		Results:        make([]resultDTO, len(results)),
	}
	for i := range results {
		f := results[i].Fields()
		dto.Results[i] = resultDTO{
			ID:               f.ID,
			Type:             string(f.Type),
			Title:            f.Title,
			Description:      f.Description,
			OrganizationID:   f.OrganizationID,
			OrganizationName: f.OrganizationName,
			Category:         f.Category,
			Score:            f.Score,
			MatchedFields:    f.MatchedFields,
			MatchedText:      f.MatchedText,
			URL:              f.URL,
			CreatedAt:        f.CreatedAt,
			UpdatedAt:        f.UpdatedAt,
		}
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

func decodeEntry(data []byte) (entry, error) {
	var dto entryDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return entry{}, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	out := make([]result.Result, len(dto.Results))
	for i, r := range dto.Results {
		ct, err := contenttype.Parse(r.Type)
		if err != nil {
			return entry{}, fmt.Errorf("cache entry: %w", err)
		}
		out[i] = result.New(result.Fields{
			ID:               r.ID,
			Type:             ct,
			Title:            r.Title,
			Description:      r.Description,
			OrganizationID:   r.OrganizationID,
			OrganizationName: r.OrganizationName,
			Category:         r.Category,
			Score:            r.Score,
			MatchedFields:    r.MatchedFields,
			MatchedText:      r.MatchedText,
			URL:              r.URL,
			CreatedAt:        r.CreatedAt,
			UpdatedAt:        r.UpdatedAt,
		})
	}
	return entry{organizationID: dto.OrganizationID, results: out, createdAt: dto.CreatedAt}, nil
}
