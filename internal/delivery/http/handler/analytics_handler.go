package handler

import (
	"encoding/json"
	"net/http"

	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/delivery/http/middleware"
	"medical-appointments/internal/domain/risk"
	"medical-appointments/internal/usecase"
	"medical-appointments/pkg/response"
	"medical-appointments/pkg/validator"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUsecase
	validator        *validator.CustomValidator
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUsecase, validator *validator.CustomValidator) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUsecase: analyticsUsecase,
		validator:        validator,
	}
}

// ScoreAppointment lets admins pick the model with ?model=. Patients always get the
// patient model.
func (h *AnalyticsHandler) ScoreAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	model := r.URL.Query().Get("model")
	if !middleware.IsAdmin(r.Context()) {
		model = risk.ModelPatient
	}

	result, err := h.analyticsUsecase.ScoreAppointment(r.Context(), id, model)
	if err != nil {
		switch err {
		case usecase.ErrUnknownModel:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			writeAppointmentError(w, err, "Failed to score appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Risk calculated successfully", result)
}

func (h *AnalyticsHandler) PreviewRisk(w http.ResponseWriter, r *http.Request) {
	var req dto.RiskPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.analyticsUsecase.PreviewRisk(r.Context(), &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to preview risk")
		return
	}

	response.Success(w, http.StatusOK, "Risk calculated successfully", result)
}

func (h *AnalyticsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.analyticsUsecase.Alerts(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to generate alerts")
		return
	}

	response.Success(w, http.StatusOK, "Alerts generated successfully", alerts)
}

func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.analyticsUsecase.Trends(r.Context(), queryInt(r, "months", 0))
	if err != nil {
		response.InternalServerError(w, "Failed to analyze trends")
		return
	}

	response.Success(w, http.StatusOK, "Trends analyzed successfully", trends)
}

func (h *AnalyticsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analyticsUsecase.Metrics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get metrics")
		return
	}

	response.Success(w, http.StatusOK, "Metrics retrieved successfully", metrics)
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.analyticsUsecase.Dashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
