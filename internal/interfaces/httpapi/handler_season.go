package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hoops-hub/internal/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/usecase"
)

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	list, err := h.queries.ListSeasons(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonListDTO{Seasons: list.Seasons, Active: list.Active})
}

// SwitchActiveSeason makes a configured season active. The refresh runs in
// the background, so the response is 202.
func (h *Handler) SwitchActiveSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwitchActiveSeason")
	defer span.End()

	var req switchSeasonRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.orchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: refresh orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	if err := h.orchestrator.SwitchSeason(ctx, req.Season); err != nil {
		h.logger.WarnContext(ctx, "switch season failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, switchSeasonDTO{Active: req.Season, Refresh: "queued"})
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeason")
	defer span.End()

	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}

func (h *Handler) GetSeasonRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonRoster")
	defer span.End()

	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	items := make([]rosterAthleteDTO, 0, len(snap.Roster))
	for _, a := range snap.Roster {
		item := rosterAthleteDTO{athleteDTO: athleteToDTO(a)}
		if stats, found := snap.PlayerStatsFor(a.ID); found {
			dto := playerStatsToDTO(stats)
			item.Stats = &dto
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, rosterDTO{
		Season:   snap.Season,
		Status:   sectionToDTO(snap.Status(season.SectionRoster)),
		Athletes: items,
	})
}

func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStats")
	defer span.End()

	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	players := make([]playerStatsDTO, 0, len(snap.PlayerStats))
	for _, p := range snap.PlayerStats {
		players = append(players, playerStatsToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, statsDTO{
		Season:  snap.Season,
		Status:  sectionToDTO(snap.Status(season.SectionStats)),
		Team:    teamStatsToDTO(snap.TeamStats),
		Players: players,
	})
}

func (h *Handler) GetSeasonSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonSchedule")
	defer span.End()

	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleDTO{
		Season: snap.Season,
		Status: sectionToDTO(snap.Status(season.SectionSchedule)),
		Games:  gamesToDTO(snap.Schedule),
	})
}

func (h *Handler) GetSeasonAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonAnalytics")
	defer span.End()

	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	writeSuccess(ctx, w, http.StatusOK, analyticsDTO{
		Season: snap.Season,
		Status: sectionToDTO(snap.Status(season.SectionAnalytics)),
		Rows:   analyticsRowsToDTO(snap.Analytics),
	})
}

func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStandings")
	defer span.End()

	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsDTO{
		Season:         snap.Season,
		Status:         sectionToDTO(snap.Status(season.SectionStandings)),
		Conference:     standingsToDTO(snap.Standings),
		RankingsStatus: sectionToDTO(snap.Status(season.SectionRankings)),
		Rankings:       pollToDTO(snap.Rankings),
	})
}

// loadSnapshot writes the error response itself and reports false on failure.
func (h *Handler) loadSnapshot(w http.ResponseWriter, r *http.Request) (season.Snapshot, bool) {
	ctx := r.Context()

	seasonYear, err := h.seasonFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return season.Snapshot{}, false
	}
	snap, err := h.queries.GetSnapshot(ctx, seasonYear)
	if err != nil {
		h.logger.DebugContext(ctx, "get season snapshot failed", "season", seasonYear, "error", err)
		writeError(ctx, w, err)
		return season.Snapshot{}, false
	}
	return snap, true
}
