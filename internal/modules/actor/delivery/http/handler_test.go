package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/actor/dto"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubActorService struct {
	actors  map[uint]entity.Actor
	created []string
}

func (s *stubActorService) List(_ context.Context, _ dto.ActorFilter, page pagination.Params) ([]entity.Actor, pagination.Meta, error) {
	out := []entity.Actor{}
	for _, a := range s.actors {
		out = append(out, a)
	}
	return out, pagination.NewMeta(page, int64(len(out)), len(out)), nil
}

func (s *stubActorService) Get(_ context.Context, id uint) (*dto.ActorDetail, error) {
	a, ok := s.actors[id]
	if !ok {
		return nil, apperror.NotFound("Actor")
	}
	detail := dto.NewActorDetail(&a)
	return &detail, nil
}

func (s *stubActorService) Create(_ context.Context, req dto.CreateActorRequest) (*entity.Actor, error) {
	s.created = append(s.created, req.Name)
	return &entity.Actor{ID: 9, Name: req.Name}, nil
}

func (s *stubActorService) Update(_ context.Context, id uint, req dto.UpdateActorRequest) (*entity.Actor, error) {
	a, ok := s.actors[id]
	if !ok {
		return nil, apperror.NotFound("Actor")
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	return &a, nil
}

func (s *stubActorService) Delete(_ context.Context, id uint) error {
	if _, ok := s.actors[id]; !ok {
		return apperror.NotFound("Actor")
	}
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *stubActorService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	svc := &stubActorService{actors: map[uint]entity.Actor{1: {ID: 1, Name: "Sigourney Weaver"}}}
	h := NewActorHandler(svc)

	r := gin.New()
	r.GET("/actors", h.GetActors)
	r.GET("/actors/:id", h.GetActor)
	r.POST("/actors", h.CreateActor)
	r.PATCH("/actors/:id", h.UpdateActor)
	r.DELETE("/actors/:id", h.DeleteActor)
	return r, svc
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestGetActorIncludesMovies(t *testing.T) {
	r, _ := setupRouter(t)

	rec, body := do(r, http.MethodGet, "/actors/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Sigourney Weaver", data["actor_name"])
	assert.Equal(t, []any{}, data["movies"])
}

func TestGetActorBadID(t *testing.T) {
	r, _ := setupRouter(t)

	for _, path := range []string{"/actors/abc", "/actors/0", "/actors/42"} {
		rec, body := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Actor not found", body["message"], path)
	}
}

func TestCreateActorValidation(t *testing.T) {
	r, svc := setupRouter(t)

	rec, body := do(r, http.MethodPost, "/actors", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation error", body["message"])
	assert.Contains(t, body["errors"], "actor_name")
	assert.Empty(t, svc.created)

	rec, _ = do(r, http.MethodPost, "/actors", `{"actor_name":"Tom Hardy"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"Tom Hardy"}, svc.created)
}

func TestPatchActorWithEmptyBody(t *testing.T) {
	r, _ := setupRouter(t)

	rec, body := do(r, http.MethodPatch, "/actors/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Actor updated successfully", body["message"])
}

func TestListActorsPagination(t *testing.T) {
	r, _ := setupRouter(t)

	rec, body := do(r, http.MethodGet, "/actors?per_page=500", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	page := body["pagination"].(map[string]any)
	assert.Equal(t, float64(100), page["per_page"])
	assert.Equal(t, float64(1), page["total_items"])
}
