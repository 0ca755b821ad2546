package handlers

import (
	"bytes"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/export"
	"github.com/solarcrm/pipeline-crm/internal/report"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

const recentLeads = 10

type ReportHandler struct {
	workspace *usecase.Workspace
	log       *zap.Logger
}

func NewReportHandler(workspace *usecase.Workspace, log *zap.Logger) *ReportHandler {
	return &ReportHandler{workspace: workspace, log: log}
}

type DashboardResponse struct {
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
	KPI     report.KPI    `json:"kpi"`
	Cards   []report.Card `json:"cards"`
	Recent  []entity.Lead `json:"recientes"`
}

type PipelineResponse struct {
	Loading      bool            `json:"loading"`
	Error        string          `json:"error,omitempty"`
	Columns      []report.Column `json:"columnas"`
	Unclassified int             `json:"sinEtapa"`
}

type ReportResponse struct {
	report.Report
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
	Cards   []report.Card `json:"cards"`
}

func (h *ReportHandler) view(r *http.Request) usecase.LeadsView {
	repo := h.workspace.Open(SessionFrom(r.Context()))
	return repo.View(r.Context(), r.URL.Query().Get("refresh") == "1")
}

// StageOption is one stage of the board with the stages a lead in it can be
// moved to.
type StageOption struct {
	entity.StageInfo
	Transitions []entity.Stage `json:"transiciones"`
}

func (h *ReportHandler) Stages(w http.ResponseWriter, r *http.Request) {
	infos := entity.StageInfos()
	out := make([]StageOption, len(infos))
	for i, info := range infos {
		out[i] = StageOption{StageInfo: info, Transitions: entity.Transitions(info.Key)}
	}
	writeOK(w, http.StatusOK, "", out)
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := h.view(r)
	kpi := report.Summarize(view.Leads)
	writeOK(w, http.StatusOK, "", DashboardResponse{
		Loading: view.Loading,
		Error:   view.Error,
		KPI:     kpi,
		Cards:   report.Cards(kpi),
		Recent:  report.Recent(view.Leads, recentLeads),
	})
}

func (h *ReportHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	view := h.view(r)
	writeOK(w, http.StatusOK, "", PipelineResponse{
		Loading:      view.Loading,
		Error:        view.Error,
		Columns:      report.Columns(view.Leads),
		Unclassified: report.Unclassified(view.Leads),
	})
}

func (h *ReportHandler) Reports(w http.ResponseWriter, r *http.Request) {
	view := h.view(r)
	rep := report.Build(view.Leads)
	writeOK(w, http.StatusOK, "", ReportResponse{
		Report:  rep,
		Loading: view.Loading,
		Error:   view.Error,
		Cards:   report.SummaryCards(rep.KPI),
	})
}

// Export streams the current snapshot as an .xlsx workbook.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	view := h.view(r)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view.Leads, report.Build(view.Leads)); err != nil {
		h.log.Error("xlsx export failed", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_ERROR", "No se pudo generar el archivo")
		return
	}

	name := "clientes-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
