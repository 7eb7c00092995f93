package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	apphttp "github.com/WalesndWebs/project-prodigyloan/internal/http"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
	"github.com/WalesndWebs/project-prodigyloan/internal/repo"
	"github.com/WalesndWebs/project-prodigyloan/internal/security"
)

type testEnv struct {
	T        *testing.T
	Ctx      context.Context
	Mongo    *mongodb.MongoDBContainer
	Store    *repo.Store
	Provider *identity.LocalProvider
	Router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}
	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "prodigyloan_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	provider := identity.NewLocalProvider(store, "test-secret", 15*time.Minute, 14*24*time.Hour)
	h := apphttp.NewHandler(store, provider, nil, 0, queue.NewNoop(), "events")

	gin.SetMode(gin.TestMode)
	return &testEnv{
		T: t, Ctx: ctx, Mongo: mc, Store: store, Provider: provider,
		Router: apphttp.NewRouter(h),
	}
}

func (e *testEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Client.Disconnect(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// seedAdmin creates an admin credential + profile directly, bypassing the
// invite flow, the way cmd/seedadmin does.
func (e *testEnv) seedAdmin(email, password string, dept domain.Department) {
	e.T.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		e.T.Fatal(err)
	}
	cred := &repo.Credential{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	if err := e.Store.CreateCredential(e.Ctx, cred); err != nil {
		e.T.Fatal(err)
	}
	if err := e.Store.UpsertProfile(e.Ctx, &domain.Profile{
		ID: cred.ID, Email: email, Role: domain.RoleAdmin, Department: dept,
	}); err != nil {
		e.T.Fatal(err)
	}
}

func (e *testEnv) login(email, password string) string {
	e.T.Helper()
	w := e.do("POST", "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	if w.Code != 200 {
		e.T.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	var lr struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || lr.Access == "" {
		e.T.Fatalf("login resp parse: %v; body=%s", err, w.Body.String())
	}
	return lr.Access
}
