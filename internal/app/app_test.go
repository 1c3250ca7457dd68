package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-cup/internal/config"
	"github.com/riskibarqy/prediction-cup/internal/infrastructure/notification"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		InternalJobToken:   "token",
		StorageDriver:      config.StorageMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Hour,
		Cup: config.CupConfig{
			ConflictWindow:        5 * time.Minute,
			ManualReviewThreshold: 10,
			WinnerCount:           1,
			IntegritySampleSize:   10,
			WinnerScanWorkers:     2,
		},
	}
}

func TestNewHTTPServer_MemoryStorageServesHealth(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	}()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func serveApp(t *testing.T, handler http.Handler, method, path, token string) []byte {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s %s: expected status 200, got %d body=%s", method, path, rec.Code, rec.Body.String())
	}
	return rec.Body.Bytes()
}

func TestNewHTTPServer_PublicReadsSeeWrites(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	defer func() { _ = cleanup() }()

	type standingsBody struct {
		Data struct {
			Standings []struct {
				Username    string `json:"username"`
				TotalPoints int    `json:"totalPoints"`
			} `json:"standings"`
		} `json:"data"`
	}
	type winnersBody struct {
		Data []struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	readStandings := func() standingsBody {
		var body standingsBody
		if err := sonic.Unmarshal(serveApp(t, srv.Handler, http.MethodGet, "/v1/cup/seasons/2024/standings", ""), &body); err != nil {
			t.Fatalf("decode standings: %v", err)
		}
		return body
	}
	readWinners := func() winnersBody {
		var body winnersBody
		if err := sonic.Unmarshal(serveApp(t, srv.Handler, http.MethodGet, "/v1/cup/seasons/2024/winners", ""), &body); err != nil {
			t.Fatalf("decode winners: %v", err)
		}
		return body
	}

	if got := readStandings(); len(got.Data.Standings) != 0 {
		t.Fatalf("expected empty standings before scoring, got %+v", got)
	}
	if got := readWinners(); len(got.Data) != 0 {
		t.Fatalf("expected no winners before determination, got %+v", got)
	}

	serveApp(t, srv.Handler, http.MethodPost, "/v1/internal/cup/rounds/101/points", "token")
	standings := readStandings()
	if len(standings.Data.Standings) != 4 {
		t.Fatalf("expected 4 standings after scoring, got %+v", standings)
	}
	if first := standings.Data.Standings[0]; first.Username != "alice" || first.TotalPoints != 6 {
		t.Fatalf("expected alice leading with 6 points, got %+v", first)
	}

	body := serveApp(t, srv.Handler, http.MethodPost, "/v1/internal/cup/seasons/2024/winners", "token")
	if !strings.Contains(string(body), `"success":true`) {
		t.Fatalf("expected successful winner determination, got %s", body)
	}
	winners := readWinners()
	if len(winners.Data) != 1 || winners.Data[0].Username != "alice" {
		t.Fatalf("expected alice as sole winner, got %+v", winners)
	}
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = " "
	if _, _, err := NewHTTPServer(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNewRepositories_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"
	if _, err := newRepositories(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestCorrectionConfig_MapsCupSettings(t *testing.T) {
	got := correctionConfig(config.CupConfig{
		ConflictWindow:                   2 * time.Minute,
		ManualReviewThreshold:            4,
		LateGraceMinutes:                 15,
		LateSubmissionCorrectionsEnabled: true,
		NotifyOnPointChanges:             false,
		RequireAdminApprovalForOverrides: true,
	})

	if got.Policy.RecencyWindow != 2*time.Minute || got.Policy.ManualReviewThreshold != 4 {
		t.Fatalf("unexpected policy: %+v", got.Policy)
	}
	if !got.Defaults.EnableConflictResolution || got.Defaults.NotifyOnPointChanges || !got.Defaults.RequireAdminApprovalForOverrides {
		t.Fatalf("unexpected defaults: %+v", got.Defaults)
	}
	if got.LateGraceMinutes != 15 || !got.LateCorrectionsEnabled {
		t.Fatalf("unexpected late settings: %+v", got)
	}
}

func TestNewNotifier_SelectsSink(t *testing.T) {
	cfg := memoryConfig()
	notifier, err := newNotifier(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build log notifier: %v", err)
	}
	if _, ok := notifier.(*notification.LogNotifier); !ok {
		t.Fatalf("expected log notifier, got %T", notifier)
	}

	cfg.Notify.WebhookEnabled = true
	cfg.Notify.WebhookURL = "https://hooks.example.com/cup"
	cfg.Notify.Timeout = time.Second
	notifier, err = newNotifier(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build webhook notifier: %v", err)
	}
	if _, ok := notifier.(*notification.WebhookNotifier); !ok {
		t.Fatalf("expected webhook notifier, got %T", notifier)
	}

	cfg.Notify.WebhookURL = "ftp://hooks.example.com"
	if _, err := newNotifier(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for invalid webhook url")
	}
}
