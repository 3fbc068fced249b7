package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	handler http.Handler
	server  *Server
	repo    users.Repository
	hasher  *auth.BcryptHasher
	tokens  *auth.TokenService
}

type pinger struct{ err error }

func (p *pinger) PingContext(context.Context) error { return p.err }

func setupTestServer(t *testing.T, env string, ping *pinger) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := repomanager.Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(ctx, db))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "http-secret"
	cfg.Environment = env
	cfg.MaxBodyBytes = 1024

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(cfg.SecretKey, time.Hour)
	require.NoError(t, err)

	repo := rm.Users(db)
	us := services.NewUserService(db, rm, hasher, tokens, logging.Nop{})
	if ping == nil {
		ping = &pinger{}
	}
	hs := services.NewHealthService(ping, cfg.Environment)
	gate := auth.NewGate(tokens, repo, logging.Nop{})

	s := NewServer(cfg, logging.Nop{}, us, hs, gate)
	return &testEnv{handler: s.Handler(), server: s, repo: repo, hasher: hasher, tokens: tokens}
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Error string `json:"error"`
}

type authData struct {
	User struct {
		ID       string  `json:"id"`
		Email    string  `json:"email"`
		Name     *string `json:"name"`
		Role     string  `json:"role"`
		Password *string `json:"password"`
	} `json:"user"`
	Token string `json:"token"`
}

func do(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSignupLoginMe(t *testing.T) {
	env := setupTestServer(t, "production", nil)

	w, resp := do(t, env.handler, http.MethodPost, "/api/auth/signup", `{"email":"a@b.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotContains(t, w.Body.String(), "password")

	var signup authData
	require.NoError(t, json.Unmarshal(resp.Data, &signup))
	assert.Equal(t, "a@b.com", signup.User.Email)
	assert.Equal(t, "USER", signup.User.Role)
	assert.NotEmpty(t, signup.Token)

	w, resp = do(t, env.handler, http.MethodPost, "/api/auth/signup", `{"email":"a@b.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists.", resp.Message)
	assert.Equal(t, "CONFLICT", resp.Code)

	w, resp = do(t, env.handler, http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", resp.Message)

	w, resp = do(t, env.handler, http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login authData
	require.NoError(t, json.Unmarshal(resp.Data, &login))

	w, resp = do(t, env.handler, http.MethodGet, "/api/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User models.Identity `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, "a@b.com", me.User.Email)
	assert.Equal(t, signup.User.ID, me.User.ID)
}

func TestSignup_ValidationListsAllErrors(t *testing.T) {
	env := setupTestServer(t, "production", nil)

	w, resp := do(t, env.handler, http.MethodPost, "/api/auth/signup", `{"email":"bad","password":"1","name":"x"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", resp.Message)
	assert.Len(t, resp.Errors, 3)

	w, resp = do(t, env.handler, http.MethodPost, "/api/auth/signup", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, resp.Errors, 2)

	w, _ = do(t, env.handler, http.MethodPost, "/api/auth/signup", `{"email":`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBodyLimit(t *testing.T) {
	env := setupTestServer(t, "production", nil)

	big := `{"email":"a@b.com","password":"` + strings.Repeat("x", 2048) + `"}`
	w, resp := do(t, env.handler, http.MethodPost, "/api/auth/signup", big, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Request body too large", resp.Message)
}

func TestMe_Rejections(t *testing.T) {
	env := setupTestServer(t, "production", nil)

	w, resp := do(t, env.handler, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required. Please provide a token.", resp.Message)

	w, resp = do(t, env.handler, http.MethodGet, "/api/auth/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token.", resp.Message)

	ghost, err := env.tokens.Issue("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	w, resp = do(t, env.handler, http.MethodGet, "/api/auth/me", "", ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not found. Invalid token.", resp.Message)
	assert.Equal(t, "USER_NOT_FOUND", resp.Code)
}

func TestAdminRoute(t *testing.T) {
	env := setupTestServer(t, "production", nil)
	ctx := context.Background()

	digest, err := env.hasher.Hash("adminpw")
	require.NoError(t, err)
	admin, err := env.repo.Create(ctx, &models.User{Email: "root@x.io", PasswordHash: digest, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, resp := do(t, env.handler, http.MethodPost, "/api/auth/signup", `{"email":"u@x.io","password":"secret1"}`, "")
	var user authData
	require.NoError(t, json.Unmarshal(resp.Data, &user))

	w, resp := do(t, env.handler, http.MethodGet, "/api/admin/users/"+admin.ID, "", user.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Admin role required.", resp.Message)

	w, resp = do(t, env.handler, http.MethodPost, "/api/auth/login", `{"email":"root@x.io","password":"adminpw"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var adminLogin authData
	require.NoError(t, json.Unmarshal(resp.Data, &adminLogin))
	assert.Equal(t, "ADMIN", adminLogin.User.Role)

	w, resp = do(t, env.handler, http.MethodGet, "/api/admin/users/"+user.User.ID, "", adminLogin.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), "u@x.io")

	w, _ = do(t, env.handler, http.MethodGet, "/api/admin/users/nope", "", adminLogin.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	ping := &pinger{}
	env := setupTestServer(t, "development", ping)

	w, _ := do(t, env.handler, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report services.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "development", report.Environment)

	ping.err = errors.New("down")
	w, _ = do(t, env.handler, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAccessLog_LevelFollowsEnvironment(t *testing.T) {
	for _, tc := range []struct {
		env    string
		logged bool
	}{{"development", true}, {"production", false}} {
		t.Run(tc.env, func(t *testing.T) {
			env := setupTestServer(t, tc.env, nil)
			var buf bytes.Buffer
			h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
			env.server.log = logging.NewSlogLogger(slog.New(h))

			w, _ := do(t, env.handler, http.MethodGet, "/api/health", "", "")
			require.Equal(t, http.StatusOK, w.Code)

			if tc.logged {
				assert.Contains(t, buf.String(), `"msg":"request"`)
				assert.Contains(t, buf.String(), `"path":"/api/health"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestNoRouteAndCORS(t *testing.T) {
	env := setupTestServer(t, "production", nil)

	w, resp := do(t, env.handler, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", resp.Message)
	assert.False(t, resp.Success)

	w, _ = do(t, env.handler, http.MethodOptions, "/api/auth/login", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicIsInternal(t *testing.T) {
	for _, tc := range []struct {
		env        string
		wantDetail bool
	}{{"production", false}, {"development", true}} {
		t.Run(tc.env, func(t *testing.T) {
			env := setupTestServer(t, tc.env, nil)
			env.server.router.GET("/api/boom", func(c *gin.Context) { panic("kaboom") })

			w, resp := do(t, env.handler, http.MethodGet, "/api/boom", "", "")
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Internal server error", resp.Message)
			if tc.wantDetail {
				assert.Contains(t, resp.Error, "kaboom")
			} else {
				assert.Empty(t, resp.Error)
			}
		})
	}
}
