package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
	"github.com/riskibarqy/football-manager/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	matchService    *usecase.MatchService
	practiceService *usecase.PracticeService
	managerService  *usecase.ManagerService
	sweepService    *usecase.SweepService
	logger          *logging.Logger
	validator       *validator.Validate
	upgrader        websocket.Upgrader
	streamOrigins   map[string]struct{}
	allowAnyOrigin  bool
	pingInterval    time.Duration
	docsDisabled    bool
}

func NewHandler(
	matchService *usecase.MatchService,
	practiceService *usecase.PracticeService,
	managerService *usecase.ManagerService,
	sweepService *usecase.SweepService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	h := &Handler{
		matchService:    matchService,
		practiceService: practiceService,
		managerService:  managerService,
		sweepService:    sweepService,
		logger:          logger,
		validator:       validator.New(),
		streamOrigins:   map[string]struct{}{},
		pingInterval:    defaultPingInterval,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkStreamOrigin,
	}
	return h
}

// WithStreamOrigins restricts which browser origins may open match streams.
// Requests without an Origin header are always accepted.
func (h *Handler) WithStreamOrigins(origins []string) *Handler {
	for _, origin := range origins {
		candidate := strings.TrimSpace(origin)
		switch candidate {
		case "":
		case "*":
			h.allowAnyOrigin = true
		default:
			h.streamOrigins[candidate] = struct{}{}
		}
	}
	return h
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst. An empty body is accepted only
// when optional is set.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any, optional bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) requireManagerID(ctx context.Context, w http.ResponseWriter) (string, bool) {
	managerID, ok := managerIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: manager id is missing from request context", usecase.ErrUnauthorized))
		return "", false
	}
	return managerID, true
}

func (h *Handler) checkStreamOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" || h.allowAnyOrigin {
		return true
	}
	_, ok := h.streamOrigins[origin]
	return ok
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

type matchCommand func(ctx context.Context, matchID, managerID string) (match.Match, error)

// runMatchCommand covers the body-less match commands: they only need the
// path match id and the caller.
func (h *Handler) runMatchCommand(w http.ResponseWriter, r *http.Request, spanName, logMsg string, cmd matchCommand) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	managerID, ok := h.requireManagerID(ctx, w)
	if !ok {
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	item, err := cmd(ctx, matchID, managerID)
	if err != nil {
		h.logger.WarnContext(ctx, logMsg, "match_id", matchID, "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, managerID))
}
