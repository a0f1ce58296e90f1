package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hoops-feed/internal/domain/leader"
	"github.com/riskibarqy/hoops-feed/internal/domain/standing"
	"github.com/riskibarqy/hoops-feed/internal/domain/team"
	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

var handlerTracer = otel.Tracer("hoops-feed/internal/interfaces/httpapi")

// SnapshotReader serves the latest assembled views.
type SnapshotReader interface {
	Dashboard(ctx context.Context) (usecase.Dashboard, error)
	Schedule(ctx context.Context) (usecase.ScheduleView, error)
	Standings(ctx context.Context) (usecase.StandingsView, error)
	Leaders(ctx context.Context) (usecase.LeadersView, error)
	LiveScores(ctx context.Context) (usecase.LiveScoresView, error)
	Odds(ctx context.Context) (usecase.OddsView, error)
}

// FeedRefresher starts an out-of-schedule cycle for a named feed.
type FeedRefresher interface {
	Refresh(ctx context.Context, name string) error
}

type Handler struct {
	snapshots SnapshotReader
	feeds     FeedRefresher
	logger    *logging.Logger
	started   time.Time
	now       func() time.Time
}

func NewHandler(snapshots SnapshotReader, feeds FeedRefresher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		snapshots: snapshots,
		feeds:     feeds,
		logger:    logger,
		started:   time.Now(),
		now:       time.Now,
	}
}

// startHandlerSpan opens a child of the otelhttp request span. Untraced routes
// such as /healthz have no parent and get none.
func startHandlerSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return handlerTracer.Start(ctx, "httpapi.Handler."+name)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	if classify(err).httpStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "error", err)
	}
	writeError(w, err)
}

type healthDTO struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, healthDTO{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetDashboard")
	defer span.End()

	dashboard, err := h.snapshots.Dashboard(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeView(w, h.now(), dashboard.Origin(), dashboard.Degraded(), dashboard)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetSchedule")
	defer span.End()

	view, err := h.snapshots.Schedule(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeView(w, h.now(), view.Provenance, view.Failed(), view)
}

// GetStandings accepts ?conference=east|west to narrow both tables.
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetStandings")
	defer span.End()

	view, err := h.snapshots.Standings(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("conference")); raw != "" {
		conf := standing.ParseConference(raw)
		if conf == team.ConferenceUnknown {
			h.fail(ctx, w, fmt.Errorf("%w: unknown conference %q", usecase.ErrInvalidInput, raw))
			return
		}
		view = filterStandings(view, conf)
	}
	writeView(w, h.now(), view.Provenance, view.Failed(), view)
}

// GetLeaders accepts ?category=points to return a single category.
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetLeaders")
	defer span.End()

	view, err := h.snapshots.Leaders(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	if name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))); name != "" {
		filtered := make([]leader.Category, 0, 1)
		for _, c := range view.Categories {
			if c.Name == name {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			h.fail(ctx, w, fmt.Errorf("%w: leader category %q", usecase.ErrNotFound, name))
			return
		}
		view.Categories = filtered
	}
	writeView(w, h.now(), view.Provenance, view.Failed(), view)
}

func (h *Handler) GetLiveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetLiveScores")
	defer span.End()

	view, err := h.snapshots.LiveScores(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeView(w, h.now(), view.Provenance, view.Failed(), view)
}

func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetOdds")
	defer span.End()

	view, err := h.snapshots.Odds(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeView(w, h.now(), view.Provenance, view.Failed(), view)
}

type refreshDTO struct {
	Feed   string `json:"feed"`
	Status string `json:"status"`
}

func (h *Handler) RefreshFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RefreshFeed")
	defer span.End()

	name := strings.TrimSpace(r.PathValue("feed"))
	if name == "" {
		h.fail(ctx, w, fmt.Errorf("%w: feed is required", usecase.ErrInvalidInput))
		return
	}

	if err := h.feeds.Refresh(ctx, name); err != nil {
		h.logger.WarnContext(ctx, "feed refresh rejected", "feed", name, "error", err)
		h.fail(ctx, w, err)
		return
	}
	writeData(w, http.StatusAccepted, refreshDTO{Feed: name, Status: "accepted"})
}

func filterStandings(view usecase.StandingsView, conf team.Conference) usecase.StandingsView {
	out := view
	out.Conferences = nil
	out.Divisions = nil
	for _, c := range view.Conferences {
		if c.Conference == conf {
			out.Conferences = append(out.Conferences, c)
		}
	}
	for _, d := range view.Divisions {
		if d.Division.Conference() == conf {
			out.Divisions = append(out.Divisions, d)
		}
	}
	return out
}
