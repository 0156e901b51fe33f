package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"edu-tutor-api/internal/domain/entity"
	"edu-tutor-api/internal/realtime"
)

type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, grade, topic string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

type stubRepo struct {
	created   []*entity.UsageRecord
	records   []*entity.UsageRecord
	createErr error
	findErr   error
}

func (s *stubRepo) Create(ctx context.Context, record *entity.UsageRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.created = append(s.created, record)
	return nil
}

func (s *stubRepo) FindByGrade(ctx context.Context, grade string) ([]*entity.UsageRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := make([]*entity.UsageRecord, 0)
	for _, r := range s.records {
		if r.Grade == grade {
			out = append(out, r)
		}
	}
	return out, nil
}

type broadcastCall struct {
	event   string
	payload any
}

type stubBroadcaster struct {
	calls []broadcastCall
}

func (s *stubBroadcaster) Publish(event string, payload any) {
	s.calls = append(s.calls, broadcastCall{event: event, payload: payload})
}

func newTestRouter(gen *stubGenerator, repo *stubRepo, bc *stubBroadcaster) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(gen, repo, bc)
	r := gin.New()
	r.POST("/api/chat", h.Chat)
	r.GET("/api/historial/:grado", h.History)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestChatMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing tema", `{"grado":"3"}`},
		{"missing grado", `{"tema":"fracciones"}`},
		{"blank grado", `{"grado":"   ","tema":"fracciones"}`},
		{"blank tema", `{"grado":"3","tema":""}`},
		{"non-string grado", `{"grado":3,"tema":"fracciones"}`},
		{"non-string tema", `{"grado":"3","tema":{"x":1}}`},
		{"null fields", `{"grado":null,"tema":null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{answer: "irrelevant"}
			repo := &stubRepo{}
			bc := &stubBroadcaster{}
			rr := postChat(t, newTestRouter(gen, repo, bc), tc.body)

			require.Equal(t, http.StatusBadRequest, rr.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Equal(t, "Faltan datos del estudiante.", resp["error"])

			require.Zero(t, gen.calls, "generator must not be called")
			require.Empty(t, repo.created, "no record must be persisted")
			require.Empty(t, bc.calls, "no broadcast must be emitted")
		})
	}
}

func TestChatSuccess(t *testing.T) {
	gen := &stubGenerator{answer: "Las fracciones son..."}
	repo := &stubRepo{}
	bc := &stubBroadcaster{}

	start := time.Now().UTC()
	rr := postChat(t, newTestRouter(gen, repo, bc), `{"grado":"3","tema":"fracciones"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "Las fracciones son...", resp["respuesta"])

	require.Len(t, repo.created, 1)
	rec := repo.created[0]
	require.Equal(t, "3", rec.Grade)
	require.Equal(t, "fracciones", rec.Topic)
	require.Equal(t, "Las fracciones son...", rec.Answer)
	require.False(t, rec.CreatedAt.Before(start), "fecha must be at or after request start")

	require.Len(t, bc.calls, 1)
	require.Equal(t, realtime.EventNewUsage, bc.calls[0].event)

	payload, err := json.Marshal(bc.calls[0].payload)
	require.NoError(t, err)
	var event map[string]any
	require.NoError(t, json.Unmarshal(payload, &event))
	require.Equal(t, "3", event["grado"])
	require.Equal(t, "fracciones", event["tema"])
	require.Equal(t, "Las fracciones son...", event["respuesta"])
	require.NotEmpty(t, event["fecha"])
}

func TestChatTrimsInput(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	repo := &stubRepo{}
	bc := &stubBroadcaster{}

	rr := postChat(t, newTestRouter(gen, repo, bc), `{"grado":" 3 ","tema":"  fracciones "}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, repo.created, 1)
	require.Equal(t, "3", repo.created[0].Grade)
	require.Equal(t, "fracciones", repo.created[0].Topic)
}

func TestChatGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream boom")}
	repo := &stubRepo{}
	bc := &stubBroadcaster{}

	rr := postChat(t, newTestRouter(gen, repo, bc), `{"grado":"3","tema":"fracciones"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "Error al procesar la respuesta.", resp["error"])
	require.NotContains(t, rr.Body.String(), "upstream boom", "cause must not leak")

	require.Empty(t, repo.created, "generation failure must not persist")
	require.Empty(t, bc.calls)
}

func TestChatPersistenceFailure(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	repo := &stubRepo{createErr: errors.New("store down")}
	bc := &stubBroadcaster{}

	rr := postChat(t, newTestRouter(gen, repo, bc), `{"grado":"3","tema":"fracciones"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "Error al procesar la respuesta.", resp["error"])

	require.Equal(t, 1, gen.calls)
	require.Empty(t, bc.calls, "persistence failure must not broadcast")
}

func TestHistoryOrderPassthrough(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	repo := &stubRepo{records: []*entity.UsageRecord{
		{Grade: "5", Topic: "rios", Answer: "a", CreatedAt: t2},
		{Grade: "5", Topic: "mapas", Answer: "b", CreatedAt: t1},
		{Grade: "2", Topic: "sumas", Answer: "c", CreatedAt: t2},
	}}
	r := newTestRouter(&stubGenerator{}, repo, &stubBroadcaster{})

	req := httptest.NewRequest("GET", "/api/historial/5", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got []entity.UsageRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "rios", got[0].Topic)
	require.Equal(t, "mapas", got[1].Topic)
	for i := 1; i < len(got); i++ {
		require.False(t, got[i-1].CreatedAt.Before(got[i].CreatedAt), "fecha must be non-increasing")
	}
}

func TestHistoryUnknownGradeEmpty(t *testing.T) {
	r := newTestRouter(&stubGenerator{}, &stubRepo{}, &stubBroadcaster{})

	req := httptest.NewRequest("GET", "/api/historial/9", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
}

func TestHistoryFailure(t *testing.T) {
	repo := &stubRepo{findErr: errors.New("store down")}
	r := newTestRouter(&stubGenerator{}, repo, &stubBroadcaster{})

	req := httptest.NewRequest("GET", "/api/historial/5", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "No se pudo obtener el historial.", resp["error"])
}
