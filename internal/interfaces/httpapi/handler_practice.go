package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/usecase"
)

func (h *Handler) StartPractice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartPractice")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}

	var req lineupRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.practiceService.Start(ctx, usecase.PracticeInput{
		ManagerID: managerID,
		PlayerIDs: req.PlayerIDs,
		Formation: req.Formation,
		Tactic:    req.Tactic,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start practice failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item, managerID))
}

func (h *Handler) KickoffPractice(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.KickoffPractice", "practice kickoff failed", h.practiceService.Kickoff)
}

func (h *Handler) GetPractice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPractice")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	item, err := h.practiceService.Get(ctx, matchID, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) StreamPractice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamPractice")
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	h.serveStream(w, r.WithContext(ctx), managerID, func(ctx context.Context, matchID string, fn func(match.Match)) (func(), error) {
		return h.practiceService.Subscribe(ctx, matchID, managerID, fn)
	})
}

func (h *Handler) ReadyPracticeSecondHalf(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ReadyPracticeSecondHalf", "practice second half failed", h.practiceService.ReadyForSecondHalf)
}

func (h *Handler) PausePractice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PausePractice")
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

	item, err := h.practiceService.RequestPause(ctx, matchID, managerID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "practice pause failed", "match_id", matchID, "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) SubstitutePractice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubstitutePractice")
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

	item, err := h.practiceService.Substitute(ctx, usecase.SubstitutionInput{
		MatchID:     matchID,
		ManagerID:   managerID,
		OutPlayerID: req.OutPlayerID,
		InPlayerID:  req.InPlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "practice substitution failed", "match_id", matchID, "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}

func (h *Handler) ResumePractice(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ResumePractice", "practice resume failed", h.practiceService.ReadyToResume)
}
