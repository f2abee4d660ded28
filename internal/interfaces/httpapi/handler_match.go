package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/football-manager/internal/usecase"
)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}

	var req challengeRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Challenge(ctx, usecase.ChallengeInput{
		ChallengerID:  managerID,
		OpponentID:    strings.TrimSpace(req.OpponentID),
		LeagueFixture: req.LeagueFixture,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "challenge failed", "manager_id", managerID, "opponent_id", req.OpponentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item, managerID))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) AcceptMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.AcceptMatch", "accept match failed", h.matchService.Accept)
}

func (h *Handler) ConfirmLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmLineup")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req lineupRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.ConfirmPrematch(ctx, usecase.LineupInput{
		MatchID:   matchID,
		ManagerID: managerID,
		PlayerIDs: req.PlayerIDs,
		Formation: req.Formation,
		Tactic:    req.Tactic,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "confirm lineup failed", "match_id", matchID, "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) SetTactic(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTactic")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req tacticRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.SetTactic(ctx, matchID, managerID, req.Tactic)
	if err != nil {
		h.logger.WarnContext(ctx, "set tactic failed", "match_id", matchID, "manager_id", managerID, "tactic", req.Tactic, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) ReadySecondHalf(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ReadySecondHalf", "second half ready failed", h.matchService.ReadyForSecondHalf)
}

func (h *Handler) RequestPause(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestPause")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req pauseRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.RequestPause(ctx, matchID, managerID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "request pause failed", "match_id", matchID, "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) Substitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Substitute")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req substitutionRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Substitute(ctx, usecase.SubstitutionInput{
		MatchID:     matchID,
		ManagerID:   managerID,
		OutPlayerID: req.OutPlayerID,
		InPlayerID:  req.InPlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "substitution failed",
			"match_id", matchID,
			"manager_id", managerID,
			"out_player_id", req.OutPlayerID,
			"in_player_id", req.InPlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) ReadyResume(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ReadyResume", "resume ready failed", h.matchService.ReadyToResume)
}

func (h *Handler) ForfeitMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ForfeitMatch", "forfeit failed", h.matchService.Forfeit)
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.CancelMatch", "cancel match failed", h.matchService.Cancel)
}

func (h *Handler) SpectateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SpectateMatch")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req spectateRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Spectate(ctx, matchID, managerID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "spectate failed", "match_id", matchID, "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) StreamMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamMatch")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	h.serveStream(w, r.WithContext(ctx), managerID, h.matchService.Subscribe)
}
