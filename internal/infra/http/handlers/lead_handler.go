package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/report"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

type LeadHandler struct {
	workspace *usecase.Workspace
}

func NewLeadHandler(workspace *usecase.Workspace) *LeadHandler {
	return &LeadHandler{workspace: workspace}
}

// LeadListResponse is the lead table: the filtered rows plus the filter options.
type LeadListResponse struct {
	usecase.LeadsView
	Total       int      `json:"total"`
	Cities      []string `json:"ciudades"`
	Ambassadors []string `json:"embajadores"`
}

type StageRequest struct {
	Etapa entity.Stage `json:"etapa"`
}

func (h *LeadHandler) repo(r *http.Request) *usecase.LeadRepository {
	return h.workspace.Open(SessionFrom(r.Context()))
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var stage entity.Stage
	if raw := q.Get("etapa"); raw != "" {
		parsed, err := entity.ParseStage(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_STAGE", err.Error())
			return
		}
		stage = parsed
	}
	view := h.repo(r).View(r.Context(), q.Get("refresh") == "1")

	all := view.Leads
	view.Leads = report.Filter(all, report.Criteria{
		City:       q.Get("ciudad"),
		Stage:      stage,
		Ambassador: q.Get("embajador"),
		Search:     q.Get("q"),
	})
	writeOK(w, http.StatusOK, "", LeadListResponse{
		LeadsView:   view,
		Total:       len(view.Leads),
		Cities:      report.Cities(all),
		Ambassadors: report.Ambassadors(all),
	})
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	input := entity.NewLeadInput()
	if !decodeJSON(w, r, &input) {
		return
	}
	repo := h.repo(r)
	if err := repo.Create(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Cliente creado", repo.Snapshot())
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}
	lead, err := h.repo(r).Read(r.Context(), row)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "", lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}
	var changes entity.LeadChanges
	if !decodeJSON(w, r, &changes) {
		return
	}
	if changes.Empty() {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_CHANGES", "No hay cambios para guardar")
		return
	}
	repo := h.repo(r)
	if err := repo.Update(r.Context(), row, changes); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Cliente actualizado", repo.Snapshot())
}

func (h *LeadHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}
	var req StageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	repo := h.repo(r)
	if err := repo.UpdateStage(r.Context(), row, req.Etapa); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Etapa actualizada", repo.Snapshot())
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}
	repo := h.repo(r)
	if err := repo.Delete(r.Context(), row); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Cliente eliminado", repo.Snapshot())
}

// rowParam reads {fila}. Leads without a row have an empty ID and cannot be
// addressed, so anything but a positive integer is rejected.
func rowParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	row, err := strconv.Atoi(chi.URLParam(r, "fila"))
	if err != nil || row <= 0 {
		writeError(w, usecase.ErrNotSelectable)
		return 0, false
	}
	return row, true
}
