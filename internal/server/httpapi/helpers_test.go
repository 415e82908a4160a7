package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/config"
	"github.com/dmitrijs2005/agentchat/internal/images"
	"github.com/dmitrijs2005/agentchat/internal/inference"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
	"github.com/dmitrijs2005/agentchat/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeInference struct {
	mu      sync.Mutex
	reply   string
	err     error
	models  []string
	lastReq []inference.Message
	model   string
}

func (f *fakeInference) Chat(ctx context.Context, model string, history []inference.Message) (inference.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = history
	f.model = model
	if f.err != nil {
		return inference.Message{}, f.err
	}
	return inference.Message{Role: models.RoleAssistant, Content: f.reply}, nil
}

func (f *fakeInference) Models(ctx context.Context) ([]string, error) {
	return f.models, nil
}

type testEnv struct {
	srv       *httptest.Server
	inference *fakeInference
	imagesDir string
}

func newTestEnv(t *testing.T, loginRate float64, loginBurst int) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, filepath.Join(t.TempDir(), "agent1.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(ctx, db))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.jpg"), []byte("jpg"), 0o644))
	catalog, err := images.NewLocalCatalog(dir)
	require.NoError(t, err)

	cfg := &config.Config{SecretKey: testSecret, TokenValidityDuration: time.Hour, BcryptCost: bcrypt.MinCost}
	log := logging.NewNopLogger()
	fi := &fakeInference{reply: "hello there", models: []string{"llama2"}}

	s := NewHTTPServer("", Deps{
		Accounts: services.NewAccountService(db, m, cfg, log),
		Chats:    services.NewChatService(db, m, fi, log),
		Memory:   services.NewMemoryService(db, m),
		Models:   services.NewModelService(fi, config.DefaultModel, []string{config.DefaultModel}, log),
		Catalog:  catalog,
		Files:    catalog,
	}, testSecret, loginRate, loginBurst, log)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{srv: ts, inference: fi, imagesDir: dir}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// signUpAndLogin registers a user and returns its access token.
func (e *testEnv) signUpAndLogin(t *testing.T, name string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/register", "", registerRequest{UserName: name, Password: "secret1", ConfirmPassword: "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/login", "", loginRequest{UserName: name, Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[loginResponse](t, resp).Token
}

func (e *testEnv) createSession(t *testing.T, token string, req sessionRequest) int64 {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/sessions", token, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[createdResponse](t, resp).ID
}
