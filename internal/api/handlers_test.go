package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meer-matthew/STT-Proto/internal/apperr"
)

func TestWriteAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindUnauthorized, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusNotFound}, // masked, never 403
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindStorage, http.StatusInternalServerError},
		{apperr.KindUpstream, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeAppError(rec, apperr.New(tc.kind, "boom"))
		require.Equal(t, tc.want, rec.Code, "kind %s", tc.kind)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "boom", body["error"])
	}
}

func TestWriteAppErrorUntyped(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppError(rec, context.DeadlineExceeded)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal error")
	require.NotContains(t, rec.Body.String(), "deadline",
		"untyped error text must not reach the client")
}

func TestDecodeAndValidate(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required,min=3"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"bob"}`))
	var p payload
	require.NoError(t, decodeAndValidate(r, &p))
	require.Equal(t, "bob", p.Name)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
	err := decodeAndValidate(r, &payload{})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	err = decodeAndValidate(r, &payload{})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestIDParam(t *testing.T) {
	newReq := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		r := httptest.NewRequest("GET", "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := idParam(newReq("17"), "id")
	require.NoError(t, err)
	require.Equal(t, int64(17), id)

	_, err = idParam(newReq("abc"), "id")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = idParam(newReq("-5"), "id")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = idParam(newReq("0"), "id")
	require.True(t, apperr.Is(err, apperr.KindValidation))
}
