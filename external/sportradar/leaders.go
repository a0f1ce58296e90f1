package sportradar

import (
	"strings"

	"github.com/riskibarqy/hoops-feed/external/upstream"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

type leadersEnvelope struct {
	Categories []leadersCategory `json:"categories" validate:"required,dive"`
}

type leadersCategory struct {
	Name  *string       `json:"name" validate:"required"`
	Type  *string       `json:"type" validate:"required"`
	Ranks []leadersRank `json:"ranks" validate:"required,dive"`
}

type leadersRank struct {
	Rank   *int           `json:"rank" validate:"required"`
	Score  *float64       `json:"score" validate:"required"`
	Player *leadersPlayer `json:"player" validate:"required"`
	Teams  []leadersTeam  `json:"teams"`
}

type leadersPlayer struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name" validate:"required"`
	Position string  `json:"position"`
}

type leadersTeam struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

// DecodeLeaders parses the season leaders payload. Category selection is left
// to the ranking stage.
func DecodeLeaders(raw []byte, contentType string) (usecase.ExternalLeaders, error) {
	var envelope leadersEnvelope
	if err := upstream.DecodeJSON(raw, contentType, &envelope); err != nil {
		return usecase.ExternalLeaders{}, err
	}

	out := usecase.ExternalLeaders{Categories: make([]usecase.ExternalLeaderCategory, 0, len(envelope.Categories))}
	for _, c := range envelope.Categories {
		category := usecase.ExternalLeaderCategory{
			Name:  strings.TrimSpace(*c.Name),
			Type:  strings.TrimSpace(*c.Type),
			Ranks: make([]usecase.ExternalLeaderRank, 0, len(c.Ranks)),
		}
		for _, r := range c.Ranks {
			rank := usecase.ExternalLeaderRank{
				Rank:           *r.Rank,
				Score:          *r.Score,
				PlayerID:       r.Player.ID,
				PlayerName:     strings.TrimSpace(*r.Player.FullName),
				PlayerPosition: r.Player.Position,
			}
			for _, t := range r.Teams {
				if strings.TrimSpace(t.Name) == "" {
					continue
				}
				rank.Teams = append(rank.Teams, usecase.ExternalTeamRef{Name: strings.TrimSpace(t.Name), Market: strings.TrimSpace(t.Market)})
			}
			category.Ranks = append(category.Ranks, rank)
		}
		out.Categories = append(out.Categories, category)
	}
	return out, nil
}
