package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
)

type stubTagService struct {
	tags []model.Tag
	err  error
}

func (s *stubTagService) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.tags {
		if s.tags[i].ID == id {
			return &s.tags[i], nil
		}
	}
	return nil, apperrors.ErrTagNotFound
}

func (s *stubTagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.tags, s.err
}

func TestTagHandler_ListTags(t *testing.T) {
	h := NewTagHandler(&stubTagService{tags: []model.Tag{
		{ID: 1, Name: "Breakfast", Slug: "breakfast"},
		{ID: 2, Name: "Dinner", Slug: "dinner"},
	}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListTags(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Tag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "breakfast", got[0].Slug)
}

func TestTagHandler_GetTag_NotFound(t *testing.T) {
	h := NewTagHandler(&stubTagService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tags/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.GetTag(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestTagHandler_GetTag_BadID(t *testing.T) {
	h := NewTagHandler(&stubTagService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tags/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.GetTag(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestPagination(t *testing.T) {
	e := echo.New()

	newCtx := func(query string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/api/users"+query, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	offset, limit := pagination(newCtx(""))
	assert.Equal(t, 0, offset)
	assert.Equal(t, defaultPageSize, limit)

	offset, limit = pagination(newCtx("?page=3&limit=20"))
	assert.Equal(t, 40, offset)
	assert.Equal(t, 20, limit)

	// Garbage values fall back to defaults.
	offset, limit = pagination(newCtx("?page=x&limit=-5"))
	assert.Equal(t, 0, offset)
	assert.Equal(t, defaultPageSize, limit)
}
