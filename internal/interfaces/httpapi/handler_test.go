package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-manager/internal/platform/id"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
	"github.com/riskibarqy/football-manager/internal/usecase"
)

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	rules := match.DefaultRules()
	store := memory.NewMatchStore()
	managers := memory.NewManagerRepository(memory.SeedManagers())

	simulator := usecase.NewSimulator(store, rules, time.Hour, logger)
	t.Cleanup(simulator.Shutdown)
	settler := usecase.NewSettlementService(store, managers, nil, logger)
	simulator.SetSettler(settler.SettleQuietly)

	practiceStore := memory.NewMatchStore()
	practiceSim := usecase.NewSimulator(practiceStore, rules, time.Hour, logger)
	t.Cleanup(practiceSim.Shutdown)
	practiceSim.SetSettler(usecase.NewSettlementService(practiceStore, managers, nil, logger).SettleQuietly)

	ids := id.NewUUIDGenerator()
	handler := NewHandler(
		usecase.NewMatchService(store, managers, nil, simulator, settler, ids, rules, logger),
		usecase.NewPracticeService(practiceStore, managers, practiceSim, ids, rules, logger),
		usecase.NewManagerService(managers),
		usecase.NewSweepService(store, simulator, settler, rules, usecase.DefaultSweepConfig(), logger),
		logger,
	)
	return NewRouter(handler, logger, []string{"*"}, testJobToken)
}

type testEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       matchDTO         `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, managerID, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if managerID != "" {
		req.Header.Set(managerIDHeader, managerID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env testEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestMatchRoutes_ChallengeAcceptFlow(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/matches", "", `{"opponentId":"mgr-harbor"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without manager header, got %d", rec.Code)
	}

	rec, created := doRequest(t, router, http.MethodPost, "/v1/matches", memory.ManagerIDRiver, `{"opponentId":"mgr-harbor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created.Data.State != match.StateWaiting || created.Data.ViewerRole != match.RoleHome {
		t.Fatalf("unexpected created match: state=%s role=%s", created.Data.State, created.Data.ViewerRole)
	}
	matchPath := "/v1/matches/" + created.Data.ID

	rec, _ = doRequest(t, router, http.MethodPost, matchPath+"/accept", memory.ManagerIDRiver, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected home accept to be forbidden, got %d", rec.Code)
	}

	rec, accepted := doRequest(t, router, http.MethodPost, matchPath+"/accept", memory.ManagerIDHarbor, "")
	if rec.Code != http.StatusOK || accepted.Data.State != match.StatePrematch {
		t.Fatalf("expected prematch after accept, got %d state=%s", rec.Code, accepted.Data.State)
	}

	rec, viewed := doRequest(t, router, http.MethodGet, matchPath, memory.ManagerIDForge, "")
	if rec.Code != http.StatusOK || viewed.Data.ViewerRole != match.RoleSpectator {
		t.Fatalf("expected spectator view, got %d role=%s", rec.Code, viewed.Data.ViewerRole)
	}

	rec, _ = doRequest(t, router, http.MethodPost, matchPath+"/pause", memory.ManagerIDRiver, `{"reason":"injury"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 pausing before kickoff, got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, http.MethodPut, matchPath+"/lineup", memory.ManagerIDRiver, `{"playerIds":["a","b"],"formation":"4-3-3"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short lineup, got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, http.MethodPut, matchPath+"/lineup", memory.ManagerIDRiver, `{"unknown":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", rec.Code)
	}

	rec, cancelled := doRequest(t, router, http.MethodPost, matchPath+"/cancel", memory.ManagerIDHarbor, "")
	if rec.Code != http.StatusOK || cancelled.Data.State != match.StateCancelled {
		t.Fatalf("expected cancelled, got %d state=%s", rec.Code, cancelled.Data.State)
	}
}

func TestMatchRoutes_UnknownMatch(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/v1/matches/does-not-exist/accept", memory.ManagerIDHarbor, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Status != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND error body, got %+v", env.Error)
	}
}

func TestPracticeRoutes_StartAndKickoff(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	ids := make([]string, 0, match.SquadSize)
	for _, p := range memory.SeedManagers()[0].Roster[:match.SquadSize] {
		ids = append(ids, `"`+p.ID+`"`)
	}
	body := `{"playerIds":[` + strings.Join(ids, ",") + `],"formation":"4-2-3-1","tactic":"attacking"}`

	rec, started := doRequest(t, router, http.MethodPost, "/v1/practice-matches", memory.ManagerIDRiver, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !started.Data.Practice || started.Data.State != match.StateReady {
		t.Fatalf("unexpected practice match: practice=%v state=%s", started.Data.Practice, started.Data.State)
	}

	path := "/v1/practice-matches/" + started.Data.ID
	rec, _ = doRequest(t, router, http.MethodPost, path+"/kickoff", memory.ManagerIDHarbor, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner kickoff, got %d", rec.Code)
	}

	rec, playing := doRequest(t, router, http.MethodPost, path+"/kickoff", memory.ManagerIDRiver, "")
	if rec.Code != http.StatusOK || playing.Data.State != match.StatePlaying {
		t.Fatalf("expected playing, got %d state=%s", rec.Code, playing.Data.State)
	}

	// Practice matches never appear in the networked store.
	rec, _ = doRequest(t, router, http.MethodGet, "/v1/matches/"+started.Data.ID, memory.ManagerIDRiver, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected practice match to be absent from match store, got %d", rec.Code)
	}
}

func TestPracticeRoutes_OwnerOnly(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	ids := make([]string, 0, match.SquadSize)
	for _, p := range memory.SeedManagers()[0].Roster[:match.SquadSize] {
		ids = append(ids, `"`+p.ID+`"`)
	}
	body := `{"playerIds":[` + strings.Join(ids, ",") + `],"formation":"4-3-3"}`
	rec, started := doRequest(t, router, http.MethodPost, "/v1/practice-matches", memory.ManagerIDRiver, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	path := "/v1/practice-matches/" + started.Data.ID

	for _, tc := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, path, ""},
		{http.MethodGet, path + "/stream", ""},
		{http.MethodPost, path + "/pause", ""},
		{http.MethodPost, path + "/resume/ready", ""},
		{http.MethodPost, path + "/second-half/ready", ""},
	} {
		rec, _ := doRequest(t, router, tc.method, tc.path, memory.ManagerIDHarbor, tc.body)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s by non-owner: expected 403, got %d", tc.method, tc.path, rec.Code)
		}
	}

	rec, got := doRequest(t, router, http.MethodGet, path, memory.ManagerIDRiver, "")
	if rec.Code != http.StatusOK || got.Data.ViewerRole != match.RoleHome {
		t.Fatalf("owner get: code=%d role=%s", rec.Code, got.Data.ViewerRole)
	}

	if rec, _ := doRequest(t, router, http.MethodPost, path+"/kickoff", memory.ManagerIDRiver, ""); rec.Code != http.StatusOK {
		t.Fatalf("kickoff: %d", rec.Code)
	}
	rec, _ = doRequest(t, router, http.MethodPost, path+"/second-half/ready", memory.ManagerIDRiver, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second half during the first, got %d", rec.Code)
	}

	rec, paused := doRequest(t, router, http.MethodPost, path+"/pause", memory.ManagerIDRiver, `{"reason":"tactical"}`)
	if rec.Code != http.StatusOK || !paused.Data.Paused {
		t.Fatalf("expected paused, got %d paused=%v", rec.Code, paused.Data.Paused)
	}
	rec, resumed := doRequest(t, router, http.MethodPost, path+"/resume/ready", memory.ManagerIDRiver, "")
	if rec.Code != http.StatusOK || resumed.Data.Paused {
		t.Fatalf("expected owner ready to resume play, got %d paused=%v", rec.Code, resumed.Data.Paused)
	}
}

func TestManagerRoutes(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/managers/me", nil)
	req.Header.Set(managerIDHeader, memory.ManagerIDForge)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data managerDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode manager: %v", err)
	}
	if env.Data.Name != "Forge Rovers" || len(env.Data.Roster) != 15 {
		t.Fatalf("unexpected manager payload: name=%s roster=%d", env.Data.Name, len(env.Data.Roster))
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/managers/me/history?limit=abc", nil)
	req.Header.Set(managerIDHeader, memory.ManagerIDForge)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestInternalSweepJob(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep", nil)
	req.Header.Set(internalJobHeader, testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStreamMatch_DeliversCurrentRecord(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec, created := doRequest(t, router, http.MethodPost, "/v1/matches", memory.ManagerIDRiver, `{"opponentId":"mgr-forge"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create match: %d", rec.Code)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/matches/" + created.Data.ID + "/stream"
	header := http.Header{}
	header.Set(managerIDHeader, memory.ManagerIDForge)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial stream: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	var frame matchDTO
	if err := sonic.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.ID != created.Data.ID || frame.ViewerRole != match.RoleAway {
		t.Fatalf("unexpected frame: id=%s role=%s", frame.ID, frame.ViewerRole)
	}

	// The opponent accepting pushes a second frame.
	rec, _ = doRequest(t, router, http.MethodPost, "/v1/matches/"+created.Data.ID+"/accept", memory.ManagerIDForge, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: %d", rec.Code)
	}
	_, payload, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read second frame: %v", err)
	}
	if err := sonic.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.State != match.StatePrematch {
		t.Fatalf("expected prematch frame, got %s", frame.State)
	}
}

func TestStreamMatch_UnknownMatchIsPlainError(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/v1/matches/nope/stream", memory.ManagerIDRiver, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before upgrade, got %d", rec.Code)
	}
}
