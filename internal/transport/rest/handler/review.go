package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"solvextra/internal/model"
	"solvextra/internal/service"
	"solvextra/internal/transport/rest/middleware"
)

// ReviewHandler handles persisted report and ATA review endpoints
type ReviewHandler struct {
	reviewSvc *service.ReviewService
	auditSvc  *service.AuditService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewSvc *service.ReviewService, auditSvc *service.AuditService) *ReviewHandler {
	return &ReviewHandler{
		reviewSvc: reviewSvc,
		auditSvc:  auditSvc,
	}
}

// List handles GET /v1/reports with optional formId/agent filters
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		reports []*model.AuditReport
		err     error
	)
	switch {
	case r.URL.Query().Get("formId") != "":
		reports, err = h.reviewSvc.ListByForm(r.Context(), r.URL.Query().Get("formId"))
	case r.URL.Query().Get("agent") != "":
		reports, err = h.reviewSvc.ListByAgent(r.Context(), r.URL.Query().Get("agent"))
	default:
		reports, err = h.reviewSvc.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Get handles GET /v1/reports/{auditId}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["auditId"]

	report, err := h.reviewSvc.Get(r.Context(), auditID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// EditAnswersRequest is the request body for an admin answer edit
type EditAnswersRequest struct {
	SectionAnswers []model.SectionAnswers `json:"sectionAnswers"`
}

// EditAnswers handles PUT /v1/reports/{auditId}/answers (admin)
func (h *ReviewHandler) EditAnswers(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["auditId"]

	var req EditAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.auditSvc.EditAnswers(r.Context(), auditID, middleware.GetUsername(r.Context()), req.SectionAnswers)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// FatalCheck handles GET /v1/reports/{auditId}/ata/fatal (masterAuditor)
func (h *ReviewHandler) FatalCheck(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["auditId"]

	hasFatal, err := h.reviewSvc.FatalCheck(r.Context(), auditID)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"hasFatal": hasFatal})
}

// Rescore handles POST /v1/reports/{auditId}/ata/rescore (masterAuditor)
func (h *ReviewHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["auditId"]

	report, err := h.reviewSvc.Rescore(r.Context(), auditID, middleware.GetUsername(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
