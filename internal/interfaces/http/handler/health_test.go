package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"edu-tutor-api/internal/config"
)

func newHealthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(cfg, nil, nil)
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/test-env", h.EnvCheck)
	r.GET("/live", h.Live)
	return r
}

func TestRootPlainOK(t *testing.T) {
	r := newHealthRouter(&config.Config{})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "OK", rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}

func TestEnvCheckReportsPresenceNotValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.APIKey = "sk-secret-value"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.Server.HTTP.Port = 3000

	r := newHealthRouter(cfg)

	req := httptest.NewRequest("GET", "/test-env", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "sk-secret-value")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, true, resp["OPENAI"])
	require.Equal(t, false, resp["MONGO"])
	require.Equal(t, "gpt-4o-mini", resp["MODEL"])
	require.EqualValues(t, 3000, resp["PORT"])
}
