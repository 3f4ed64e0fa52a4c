package handler

import (
	"context"
	"net/http"
	"testing"

	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/risk"
	"medical-appointments/internal/usecase"
	"medical-appointments/pkg/validator"

	"github.com/stretchr/testify/assert"
)

type fakeAnalytics struct {
	usecase.AnalyticsUsecase
	model  string
	months int
}

func (f *fakeAnalytics) ScoreAppointment(_ context.Context, id uint, model string) (*dto.RiskResponse, error) {
	f.model = model
	if model != "" && model != risk.ModelAdmin && model != risk.ModelPatient {
		return nil, usecase.ErrUnknownModel
	}
	return &dto.RiskResponse{AppointmentID: id, Model: model}, nil
}

func (f *fakeAnalytics) Trends(_ context.Context, months int) (*dto.TrendsResponse, error) {
	f.months = months
	return &dto.TrendsResponse{Window: months}, nil
}

func TestAnalyticsHandler_ScoreModelSelection(t *testing.T) {
	fake := &fakeAnalytics{}
	h := NewAnalyticsHandler(fake, validator.NewValidator())
	vars := map[string]string{"id": "5"}

	serve(h.ScoreAppointment, request{method: http.MethodGet, path: "/appointments/5/risk?model=admin", vars: vars, ctx: patientCtx()})
	assert.Equal(t, risk.ModelPatient, fake.model)

	serve(h.ScoreAppointment, request{method: http.MethodGet, path: "/appointments/5/risk", vars: vars, ctx: adminCtx()})
	assert.Equal(t, "", fake.model)

	rec := serve(h.ScoreAppointment, request{method: http.MethodGet, path: "/appointments/5/risk?model=bayes", vars: vars, ctx: adminCtx()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsHandler_TrendsMonths(t *testing.T) {
	fake := &fakeAnalytics{}
	h := NewAnalyticsHandler(fake, validator.NewValidator())

	serve(h.Trends, request{method: http.MethodGet, path: "/admin/analytics/trends?months=12"})
	assert.Equal(t, 12, fake.months)

	serve(h.Trends, request{method: http.MethodGet, path: "/admin/analytics/trends?months=abc"})
	assert.Equal(t, 0, fake.months)
}
