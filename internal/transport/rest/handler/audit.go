package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"solvextra/internal/service"
	"solvextra/internal/transport/rest/middleware"
)

// AuditHandler handles live audit session endpoints
type AuditHandler struct {
	auditSvc *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditSvc *service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// StartAuditRequest is the request body for opening an audit session
type StartAuditRequest struct {
	FormID string `json:"formId"`
	Agent  string `json:"agent"`
}

// Start handles POST /v1/audits
func (h *AuditHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FormID == "" {
		writeError(w, http.StatusBadRequest, "formId is required")
		return
	}

	session, err := h.auditSvc.Start(r.Context(), req.FormID, req.Agent, middleware.GetUsername(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": session.ID,
		"visible":   session.Visible(),
	})
}

// AnswerRequest is the request body for recording an answer
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// Answer handles PUT /v1/audits/{sessionId}/answers
func (h *AuditHandler) Answer(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	layout, err := h.auditSvc.Answer(r.Context(), sessionID, middleware.GetUsername(r.Context()), req.QuestionID, req.Value)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layout)
}

// Visible handles GET /v1/audits/{sessionId}/visible
func (h *AuditHandler) Visible(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	layout, err := h.auditSvc.Visible(r.Context(), sessionID, middleware.GetUsername(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layout)
}

// Submit handles POST /v1/audits/{sessionId}/submit
func (h *AuditHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	report, err := h.auditSvc.Submit(r.Context(), sessionID, middleware.GetUsername(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotSessionOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
