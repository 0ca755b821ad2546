package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

// Envelope mirrors the shape the spreadsheet answers with, so the UI reads
// both the same way.
type Envelope struct {
	OK      bool        `json:"ok"`
	Code    string      `json:"code,omitempty"`
	Mensaje string      `json:"mensaje,omitempty"`
	Datos   interface{} `json:"datos,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, mensaje string, datos interface{}) {
	writeJSON(w, status, Envelope{OK: true, Mensaje: mensaje, Datos: datos})
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Envelope{OK: false, Code: code, Mensaje: message})
}

// writeError maps use-case errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	var te *usecase.TechnicalError
	switch {
	case errors.Is(err, usecase.ErrNoSession):
		writeErrorResponse(w, http.StatusUnauthorized, "NO_SESSION", err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		writeErrorResponse(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, usecase.ErrNotSelectable):
		writeErrorResponse(w, http.StatusBadRequest, "NOT_SELECTABLE", err.Error())
	case errors.As(err, &de):
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
	case errors.As(err, &te):
		writeErrorResponse(w, http.StatusBadGateway, te.Code, te.Message)
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno")
	}
}

func domainStatus(code string) int {
	switch code {
	case "VALIDATION_ERROR", "INVALID_STAGE":
		return http.StatusBadRequest
	case "NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return false
	}
	return true
}
