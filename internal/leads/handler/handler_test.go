package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

type memoryRepo struct {
	leads map[uuid.UUID]repository.Lead
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := m.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (repository.Lead, error) {
	for _, lead := range m.leads {
		if lead.Email == email {
			return lead, nil
		}
	}
	return repository.Lead{}, apperr.NotFound("lead not found")
}

func (m *memoryRepo) Create(_ context.Context, params repository.CreateParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:       uuid.New(),
		Name:     params.Name,
		Email:    params.Email,
		Phone:    params.Phone,
		Language: params.Language,
		CRMTags:  params.CRMTags,
	}
	m.leads[lead.ID] = lead
	return lead, nil
}

func (m *memoryRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Lead, error) {
	lead, ok := m.leads[params.ID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if params.Email != nil {
		lead.Email = *params.Email
	}
	m.leads[params.ID] = lead
	return lead, nil
}

func (m *memoryRepo) SetAppointmentBooked(_ context.Context, id uuid.UUID, booked bool) (repository.Lead, error) {
	lead, ok := m.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.AppointmentBooked = booked
	m.leads[id] = lead
	return lead, nil
}

func newLeadsRouter() (*gin.Engine, *memoryRepo) {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepo{leads: make(map[uuid.UUID]repository.Lead)}
	svc := service.New(repo, logger.New("development"))
	h := New(svc, validator.New())

	r := gin.New()
	r.POST("/prequal", h.Create)
	r.GET("/prequal/:id", h.GetByID)
	r.PATCH("/prequal/:id", h.Update)
	return r, repo
}

func do(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate_ReturnsID(t *testing.T) {
	router, repo := newLeadsRouter()

	w := do(t, router, http.MethodPost, "/prequal", gin.H{
		"email": "maria@example.com",
		"phone": "+12125550123",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	assert.Contains(t, repo.leads, id)
}

func TestCreate_RejectsMissingEmail(t *testing.T) {
	router, _ := newLeadsRouter()

	w := do(t, router, http.MethodPost, "/prequal", gin.H{"phone": "+12125550123"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByID_InvalidUUID(t *testing.T) {
	router, _ := newLeadsRouter()

	w := do(t, router, http.MethodGet, "/prequal/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByID_Unknown(t *testing.T) {
	router, _ := newLeadsRouter()

	w := do(t, router, http.MethodGet, "/prequal/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_PartialFields(t *testing.T) {
	router, repo := newLeadsRouter()

	create := do(t, router, http.MethodPost, "/prequal", gin.H{
		"email": "old@example.com",
		"phone": "+12125550123",
	})
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &created))

	w := do(t, router, http.MethodPatch, "/prequal/"+created.ID, gin.H{"email": "NEW@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	id, _ := uuid.Parse(created.ID)
	assert.Equal(t, "new@example.com", repo.leads[id].Email)
}
