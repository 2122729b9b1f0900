package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/guest-list/internal/api/http/handlers"
	"github.com/spec-kit/guest-list/internal/auth"
	"github.com/spec-kit/guest-list/internal/config"
	"github.com/spec-kit/guest-list/internal/export"
	"github.com/spec-kit/guest-list/internal/i18n"
	"github.com/spec-kit/guest-list/internal/observability"
	"github.com/spec-kit/guest-list/internal/repository"
	"github.com/spec-kit/guest-list/internal/service"
)

type testServer struct {
	app        *fiber.App
	controller *service.GuestListController
	tokens     *auth.TokenManager
}

func newTestServer(t *testing.T, passwordHash string) *testServer {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := repository.NewMemoryGuestRepository()
	controller := service.NewGuestListController(service.GuestListDependencies{
		Store:    store,
		Exporter: export.NewCSVExporter(i18n.Default, false),
		Logger:   logger,
		Printer:  i18n.Printer(i18n.Default),
	})

	tokens := auth.NewTokenManager("test-secret", 10)
	authCfg := config.AuthConfig{HostPasswordHash: passwordHash}
	authService := service.NewAuthService(authCfg, tokens)

	page, err := handlers.NewPageHandler(controller, i18n.Default, authService.Enabled())
	if err != nil {
		t.Fatalf("page handler: %v", err)
	}

	app := NewApp("guest-list-test")
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("guest-list", "test", map[string]handlers.Pinger{"memory": store}, metrics),
		Guests:         handlers.NewGuestsHandler(controller, logger),
		Page:           page,
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authService.Enabled()),
	})
	return &testServer{app: app, controller: controller, tokens: tokens}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

func TestJSONGuestFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	resp, body := s.do(t, jsonRequest(http.MethodPost, "/api/guests", `{"full_name":"Ana Silva","confirmed":true}`))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", resp.StatusCode, body)
	}
	var created struct {
		Data struct {
			ID        string `json:"id"`
			FullName  string `json:"full_name"`
			Confirmed bool   `json:"confirmed"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.ID == "" || created.Data.FullName != "Ana Silva" || !created.Data.Confirmed {
		t.Fatalf("unexpected create response %s", body)
	}

	resp, body = s.do(t, jsonRequest(http.MethodPut, "/api/guests/"+created.Data.ID, `{"full_name":"Ana Souza","confirmed":false}`))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Ana Souza") {
		t.Fatalf("update status = %d body=%s", resp.StatusCode, body)
	}

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/guests", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var listed struct {
		Data []struct {
			ID       string `json:"id"`
			FullName string `json:"full_name"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Data) != 1 || listed.Data[0].FullName != "Ana Souza" || listed.Data[0].ID != created.Data.ID {
		t.Fatalf("unexpected list %s", body)
	}
}

func TestJSONErrorsUseEnvelope(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	tests := []struct {
		name string
		req  *http.Request
		code int
		want string
	}{
		{"empty name", jsonRequest(http.MethodPost, "/api/guests", `{"full_name":"  "}`), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"bad json", jsonRequest(http.MethodPost, "/api/guests", `{`), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown guest", jsonRequest(http.MethodPut, "/api/guests/999", `{"full_name":"X"}`), http.StatusNotFound, "NOT_FOUND"},
		{"unknown route", httptest.NewRequest(http.MethodGet, "/nope", nil), http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		resp, body := s.do(t, tt.req)
		if resp.StatusCode != tt.code {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, resp.StatusCode, tt.code, body)
			continue
		}
		var envelope struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal([]byte(body), &envelope); err != nil || envelope.Error.Code != tt.want {
			t.Errorf("%s: envelope = %s, want code %s", tt.name, body, tt.want)
		}
	}
}

func TestFormIntentsRedirectAndRender(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	resp, _ := s.do(t, formRequest("/guests", url.Values{"full_name": {"Bruno Costa"}, "confirmed": {"true"}}))
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("add: status = %d location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	guests := s.controller.State().Guests
	if len(guests) != 1 || !guests[0].Confirmed {
		t.Fatalf("form add not applied: %+v", guests)
	}
	id := guests[0].ID

	resp, _ = s.do(t, formRequest("/guests/"+id+"/edit", url.Values{}))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("begin edit status = %d", resp.StatusCode)
	}
	if st := s.controller.State(); st.EditingID == nil || *st.EditingID != id {
		t.Fatal("begin edit not applied")
	}

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page status = %d", resp.StatusCode)
	}
	for _, want := range []string{"Gestão de Convidados", `action="/guests/` + id + `"`, "Salvar", "Cancelar"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	resp, _ = s.do(t, formRequest("/guests/edit/cancel", url.Values{}))
	if resp.StatusCode != http.StatusSeeOther || s.controller.State().EditingID != nil {
		t.Fatal("cancel edit not applied")
	}

	resp, _ = s.do(t, formRequest("/guests/"+id, url.Values{"full_name": {"Bruno C."}}))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	if g := s.controller.State().Guests[0]; g.FullName != "Bruno C." || g.Confirmed {
		t.Fatalf("save not applied: %+v", g)
	}

	resp, _ = s.do(t, formRequest("/guests/reload", url.Values{}))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("reload status = %d", resp.StatusCode)
	}
}

func TestFormValuesOutliveTheirRequest(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	s.do(t, formRequest("/guests", url.Values{"full_name": {"Ana Silva"}}))
	for i := 0; i < 20; i++ {
		s.do(t, formRequest("/guests", url.Values{"full_name": {"Zzzzzzzzz"}, "confirmed": {"true"}}))
	}

	guests := s.controller.State().Guests
	if len(guests) != 21 {
		t.Fatalf("guests = %d, want 21", len(guests))
	}
	if guests[0].FullName != "Ana Silva" {
		t.Fatalf("first guest name = %q, want %q", guests[0].FullName, "Ana Silva")
	}
	_, body := s.do(t, httptest.NewRequest(http.MethodGet, "/guests/export", nil))
	if !strings.HasPrefix(body, "Nome Completo,Confirmado\nAna Silva,Não\n") {
		t.Fatalf("export = %q", body)
	}
}

func TestEditTargetOutlivesItsRequest(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	s.do(t, formRequest("/guests", url.Values{"full_name": {"Bruno"}}))
	id := s.controller.State().Guests[0].ID

	s.do(t, formRequest("/guests/"+id+"/edit", url.Values{}))
	for i := 0; i < 10; i++ {
		s.do(t, formRequest("/guests/xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx/edit", url.Values{}))
		s.do(t, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	}

	st := s.controller.State()
	if st.EditingID == nil || *st.EditingID != id {
		t.Fatalf("edit target = %v, want %q", st.EditingID, id)
	}
	if st.Edit.FullName != "Bruno" {
		t.Fatalf("edit scratch = %+v", st.Edit)
	}
}

func TestUpdateUnknownGuestClearsEditTarget(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	resp, body := s.do(t, jsonRequest(http.MethodPut, "/api/guests/999", `{"full_name":"Eva","confirmed":true}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update status = %d body=%s", resp.StatusCode, body)
	}

	_, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var state struct {
		Data struct {
			EditingID *string `json:"editing_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Data.EditingID != nil {
		t.Fatalf("editing_id = %q after update of unknown guest", *state.Data.EditingID)
	}
}

func TestFormValidationShowsNotice(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	resp, _ := s.do(t, formRequest("/guests", url.Values{"full_name": {"   "}}))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("rejected intent should still redirect, got %d", resp.StatusCode)
	}
	_, body := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(body, "O nome completo é obrigatório.") {
		t.Fatal("validation notice not rendered")
	}
}

func TestExportDownload(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/guests/export", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body != "Nome Completo,Confirmado\n" {
		t.Fatalf("empty export = %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != export.ContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, export.FileName) {
		t.Fatalf("content disposition = %q", cd)
	}

	s.do(t, jsonRequest(http.MethodPost, "/api/guests", `{"full_name":"Ana Silva","confirmed":true}`))
	_, body = s.do(t, httptest.NewRequest(http.MethodGet, "/guests/export", nil))
	if body != "Nome Completo,Confirmado\nAna Silva,Sim" {
		t.Fatalf("export = %q", body)
	}
}

func TestStateEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	_, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var state struct {
		Data struct {
			Guests    []any   `json:"guests"`
			EditingID *string `json:"editing_id"`
			Loading   bool    `json:"loading"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Data.Guests == nil || len(state.Data.Guests) != 0 || state.Data.EditingID != nil {
		t.Fatalf("unexpected initial state %s", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	for _, path := range []string{"/health/live", "/health/ready", "/health/metrics"} {
		resp, body := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d body=%s", path, resp.StatusCode, body)
		}
	}
}

func TestHostAuthProtectsMutations(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("festa", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s := newTestServer(t, hash)

	resp, _ := s.do(t, jsonRequest(http.MethodPost, "/api/guests", `{"full_name":"Ana"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous add status = %d, want 401", resp.StatusCode)
	}
	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reads must stay public, got %d", resp.StatusCode)
	}

	resp, body := s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"password":"wrong"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d body=%s", resp.StatusCode, body)
	}

	resp, body = s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"password":"festa"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d body=%s", resp.StatusCode, body)
	}
	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &login); err != nil || login.Data.AccessToken == "" {
		t.Fatalf("login body = %s", body)
	}

	req := jsonRequest(http.MethodPost, "/api/guests", `{"full_name":"Ana"}`)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	resp, body = s.do(t, req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("authorized add status = %d body=%s", resp.StatusCode, body)
	}

	resp, _ = s.do(t, formRequest("/auth/login", url.Values{"password": {"wrong"}}))
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/?login=failed" {
		t.Fatalf("form login failure should redirect, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestLoginDisabledIsNotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	resp, _ := s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"password":"x"}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
