package sportradar

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hoops-feed/external/upstream"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

type scheduleEnvelope struct {
	Games []scheduleGame `json:"games" validate:"required,dive"`
}

type scheduleGame struct {
	ID         *string             `json:"id" validate:"required"`
	Status     *string             `json:"status" validate:"required"`
	Scheduled  *string             `json:"scheduled" validate:"required"`
	HomePoints *int                `json:"home_points"`
	AwayPoints *int                `json:"away_points"`
	Venue      *scheduleVenue      `json:"venue"`
	Broadcasts []scheduleBroadcast `json:"broadcasts"`
	Home       *teamRef            `json:"home" validate:"required"`
	Away       *teamRef            `json:"away" validate:"required"`
}

type scheduleVenue struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

type scheduleBroadcast struct {
	Network string `json:"network"`
	Type    string `json:"type"`
}

type teamRef struct {
	ID     string  `json:"id"`
	Name   *string `json:"name" validate:"required"`
	Market string  `json:"market"`
	Alias  string  `json:"alias"`
}

func (t *teamRef) external() usecase.ExternalTeamRef {
	return usecase.ExternalTeamRef{
		Name:   strings.TrimSpace(*t.Name),
		Market: strings.TrimSpace(t.Market),
		Alias:  strings.TrimSpace(t.Alias),
	}
}

// DecodeSchedule parses a season schedule payload.
func DecodeSchedule(raw []byte, contentType string) (usecase.ExternalSchedule, error) {
	var envelope scheduleEnvelope
	if err := upstream.DecodeJSON(raw, contentType, &envelope); err != nil {
		return usecase.ExternalSchedule{}, err
	}

	out := usecase.ExternalSchedule{Games: make([]usecase.ExternalGame, 0, len(envelope.Games))}
	for i, item := range envelope.Games {
		scheduled, err := upstream.ParseTime(*item.Scheduled, fmt.Sprintf("games[%d].scheduled", i))
		if err != nil {
			return usecase.ExternalSchedule{}, err
		}

		g := usecase.ExternalGame{
			ID:         *item.ID,
			Status:     *item.Status,
			Scheduled:  scheduled,
			Home:       item.Home.external(),
			Away:       item.Away.external(),
			HomePoints: item.HomePoints,
			AwayPoints: item.AwayPoints,
		}
		if item.Venue != nil && item.Venue.Name != "" {
			g.Venue = &usecase.ExternalVenue{Name: item.Venue.Name, City: item.Venue.City, State: item.Venue.State}
		}
		for _, b := range item.Broadcasts {
			if network := strings.TrimSpace(b.Network); network != "" {
				g.Broadcasts = append(g.Broadcasts, network)
			}
		}
		out.Games = append(out.Games, g)
	}
	return out, nil
}
