package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/internal/container"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/memory"
	"github.com/oksasatya/my-maps-api/internal/interface/middleware"
)

func newEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Cleanup(container.Reset)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetEntityStore(memory.NewEntityStore())
	container.SetBlobStore(memory.NewBlobStore("https://storage.googleapis.com/my_maps_avatar_bucket"))

	r := gin.New()
	reg := NewRegistry(r)
	reg.Use(middleware.RequestIDMiddleware(), middleware.Stats())
	InitModules(reg)
	reg.RegisterAll()
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r.ServeHTTP(w, httptest.NewRequest(method, target, rd))
	return w
}

func TestRoutesAtRoot(t *testing.T) {
	r := newEngine(t, &config.Config{DebugMetricsEnabled: true})

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello from My Maps API!", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = do(r, http.MethodPost, "/signup", `{"username":"ann","email":"a@x.com","password":"pw","avatar":"/9j/4AAQSkZJRg=="}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/login?email=a%40x.com&password=pw", "")
	require.Equal(t, http.StatusOK, w.Code)
	var user map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "https://storage.googleapis.com/my_maps_avatar_bucket/ann-avatar.jpg", user["avatar"])

	id := user["id"].(string)
	w = do(r, http.MethodPost, "/addTimeline", `{"userId":`+id+`,"origin":"A","destination":"B","time":"2024-01-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/getTimelines?userId="+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sub":false`)

	w = do(r, http.MethodGet, "/searchUsers?q=ann", "")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/login", "").Code)
}

func TestDebugVars(t *testing.T) {
	r := newEngine(t, &config.Config{DebugMetricsEnabled: true})
	do(r, http.MethodGet, "/", "")

	w := do(r, http.MethodGet, "/debug/vars", "")
	require.Equal(t, http.StatusOK, w.Code)
	var vars map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vars))
	assert.Contains(t, vars, "api_requests")
	assert.Contains(t, string(vars["api_requests"]), "GET / 200")
}

func TestDebugVarsDisabled(t *testing.T) {
	r := newEngine(t, &config.Config{})
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/debug/vars", "").Code)
}
