package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medical-appointments/internal/delivery/http/middleware"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/pkg/jwt"
	"medical-appointments/pkg/response"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type request struct {
	method string
	path   string
	body   string
	vars   map[string]string
	ctx    context.Context
}

func serve(h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	r := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	if req.ctx != nil {
		r = r.WithContext(req.ctx)
	}
	if req.vars != nil {
		r = mux.SetURLVars(r, req.vars)
	}
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func asRole(id uint, roleID int) context.Context {
	return middleware.WithIdentity(context.Background(), &jwt.Claims{UserID: id, RoleID: roleID, TokenID: "tok"})
}

func patientCtx() context.Context { return asRole(7, entity.RoleIDPatient) }

func adminCtx() context.Context { return asRole(1, entity.RoleIDAdmin) }
