package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/member-graph/config"
	"github.com/d60-Lab/member-graph/pkg/database"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		Database:  config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"},
		JWT:       config.JWTConfig{Secret: "test-secret", Issuer: "member-graph", AccessTTL: time.Minute, RefreshTTL: time.Hour, DenylistTTL: 30 * time.Minute},
		Auth:      config.AuthConfig{BcryptCost: 4},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 1000, Burst: 1000},
		Stats:     config.StatsConfig{TTL: time.Minute, Workers: 1, QueueSize: 64},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := testConfig()
	db, err := database.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	a, err := Build(cfg, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.Shutdown(context.Background())
		_ = rdb.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return a
}

func call(t *testing.T, a *App, method, path, accessToken string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", accessToken)
	}
	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type memberBody struct {
	MemberID       int64  `json:"memberId"`
	UserName       string `json:"userName"`
	Nickname       string `json:"nickname"`
	FollowerCount  int64  `json:"followerCount"`
	FollowingCount int64  `json:"followingCount"`
}

type errorBody struct {
	ErrorCode *string `json:"errorCode"`
	Message   string  `json:"message"`
	Status    int     `json:"status"`
}

func signup(t *testing.T, a *App, userName string) {
	t.Helper()
	rec := call(t, a, http.MethodPost, "/api/v1/members", "", map[string]string{
		"userName": userName,
		"password": "abc12!" + userName[:1],
		"nickname": "nick-" + userName,
		"email":    userName + "@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func login(t *testing.T, a *App, userName string) (string, int64) {
	t.Helper()
	rec := call(t, a, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"userName": userName,
		"password": "abc12!" + userName[:1],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Refresh"))
	access := decode[map[string]any](t, rec)["accessToken"].(string)

	me := decode[memberBody](t, call(t, a, http.MethodGet, "/api/v1/members/mypage", access, nil))
	require.Equal(t, userName, me.UserName)
	return access, me.MemberID
}

func TestSignupAndValidation(t *testing.T) {
	a := newTestApp(t)
	signup(t, a, "alice")

	rec := call(t, a, http.MethodPost, "/api/v1/members", "", map[string]string{
		"userName": "alice", "password": "abc12!a", "nickname": "x", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "MEMBER_EXISTS", *decode[errorBody](t, rec).ErrorCode)

	rec = call(t, a, http.MethodPost, "/api/v1/members", "", map[string]string{
		"userName": "bad name", "password": "abc12!a", "nickname": "x", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQUEST_VALIDATION_FAIL", *decode[errorBody](t, rec).ErrorCode)
}

func TestFollowFlow(t *testing.T) {
	a := newTestApp(t)
	signup(t, a, "alice")
	signup(t, a, "bob")
	aliceToken, aliceID := login(t, a, "alice")
	_, bobID := login(t, a, "bob")

	bobPath := fmt.Sprintf("/api/v1/members/%d", bobID)
	assert.Equal(t, int64(0), decode[memberBody](t, call(t, a, http.MethodGet, bobPath, "", nil)).FollowerCount)

	rec := call(t, a, http.MethodPost, fmt.Sprintf("/api/v1/members/follow/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["following"])

	rec = call(t, a, http.MethodPost, fmt.Sprintf("/api/v1/members/follow/%d", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQUEST_VALIDATION_FAIL", *decode[errorBody](t, rec).ErrorCode)

	rec = call(t, a, http.MethodGet, "/api/v1/members/following", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Content []struct {
			FollowID int64  `json:"followId"`
			MemberID int64  `json:"memberId"`
			UserName string `json:"userName"`
		} `json:"content"`
		HasNext bool `json:"hasNext"`
		Size    int  `json:"size"`
	}](t, rec)
	require.Len(t, page.Content, 1)
	assert.Equal(t, bobID, page.Content[0].MemberID)
	assert.Equal(t, "bob", page.Content[0].UserName)
	assert.False(t, page.HasNext)
	assert.Equal(t, 10, page.Size)

	rec = call(t, a, http.MethodGet, "/api/v1/members/following?cursorId=abc", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 切换返回后计数立即可见
	rec = call(t, a, http.MethodGet, bobPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[memberBody](t, rec).FollowerCount)

	// 再次切换即取消
	rec = call(t, a, http.MethodPost, fmt.Sprintf("/api/v1/members/follow/%d", bobID), aliceToken, nil)
	assert.Equal(t, false, decode[map[string]any](t, rec)["following"])
	assert.Equal(t, int64(0), decode[memberBody](t, call(t, a, http.MethodGet, bobPath, "", nil)).FollowerCount)
}

func TestOwnershipAndAnonymous(t *testing.T) {
	a := newTestApp(t)
	signup(t, a, "alice")
	signup(t, a, "bob")
	_, aliceID := login(t, a, "alice")
	bobToken, _ := login(t, a, "bob")

	patch := map[string]string{"nickname": "hacked"}
	path := fmt.Sprintf("/api/v1/members/%d", aliceID)

	rec := call(t, a, http.MethodPatch, path, bobToken, patch)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "MEMBER_NOT_AUTHORIZED", *decode[errorBody](t, rec).ErrorCode)

	rec = call(t, a, http.MethodPatch, path, "garbage-token", patch)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, a, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	got := decode[memberBody](t, call(t, a, http.MethodGet, path, "", nil))
	assert.Equal(t, "nick-alice", got.Nickname)

	rec = call(t, a, http.MethodGet, "/api/v1/members/mypage", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MEMBER_NOT_FOUND", *decode[errorBody](t, rec).ErrorCode)
}

func TestLogoutDeniesToken(t *testing.T) {
	a := newTestApp(t)
	signup(t, a, "alice")
	token, id := login(t, a, "alice")

	rec := call(t, a, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// 已注销的 token 按匿名处理
	rec = call(t, a, http.MethodGet, "/api/v1/members/mypage", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	token, _ = login(t, a, "alice")
	rec = call(t, a, http.MethodDelete, fmt.Sprintf("/api/v1/members/%d", id), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = call(t, a, http.MethodGet, fmt.Sprintf("/api/v1/members/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShutdownBeforeRun(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run kept serving after Shutdown")
	}
}

func TestHTTPLevelErrors(t *testing.T) {
	a := newTestApp(t)

	rec := call(t, a, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Nil(t, body.ErrorCode)
	assert.Equal(t, 404, body.Status)
	assert.Equal(t, "Not Found", body.Message)

	rec = call(t, a, http.MethodPut, "/api/v1/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 405, decode[errorBody](t, rec).Status)

	rec = call(t, a, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, a, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "member_graph_http_requests_total")
}
