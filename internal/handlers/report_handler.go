package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/metrics"
	"github.com/BruksfildServices01/maintenance-orders/internal/report"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
	ucOrder "github.com/BruksfildServices01/maintenance-orders/internal/usecase/order"
)

type ReportHandler struct {
	generator      *report.Generator
	productivityUC *ucOrder.TechnicianProductivity
	optionsUC      *ucOrder.FormOptions
	audit          audit.Sink
}

func NewReportHandler(
	generator *report.Generator,
	productivityUC *ucOrder.TechnicianProductivity,
	optionsUC *ucOrder.FormOptions,
	audit audit.Sink,
) *ReportHandler {
	return &ReportHandler{
		generator:      generator,
		productivityUC: productivityUC,
		optionsUC:      optionsUC,
		audit:          audit,
	}
}

type GenerateReportRequest struct {
	TechnicianName  string `form:"technician_name"`
	CompletedOrders string `form:"completed_orders"`
	TotalHours      string `form:"total_hours"`
}

// reportForm keeps the raw submitted strings so a rejected form re-renders as typed.
type reportForm struct {
	TechnicianName  string
	CompletedOrders string
	TotalHours      string
}

// Form shows the report form. With ?technician_id= it pre-fills the figures
// computed from that technician's completed orders.
func (h *ReportHandler) Form(c *gin.Context) {
	form := reportForm{CompletedOrders: "0", TotalHours: "0"}
	selected := parseID(c.Query("technician_id"))

	if selected != 0 {
		p, err := h.productivityUC.Execute(c.Request.Context(), selected)
		if err != nil {
			if httperr.IsBusiness(err, httperr.CodeValidation) {
				h.render(c, http.StatusBadRequest, form, 0, httperr.Message(err))
				return
			}
			httperr.Internal(c, err)
			return
		}
		form = reportForm{
			TechnicianName:  p.TechnicianName,
			CompletedOrders: strconv.Itoa(p.CompletedOrders),
			TotalHours:      report.FormatHours(p.TotalHours),
		}
	}

	h.render(c, http.StatusOK, form, selected, "")
}

// Generate builds the PDF from the submitted figures as-is; they are not
// checked against stored orders.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.render(c, http.StatusBadRequest, reportForm{}, 0, httperr.Message(httperr.ErrBusiness(httperr.CodeValidation)))
		return
	}

	form := reportForm{
		TechnicianName:  strings.TrimSpace(req.TechnicianName),
		CompletedOrders: strings.TrimSpace(req.CompletedOrders),
		TotalHours:      strings.TrimSpace(req.TotalHours),
	}

	count, err := strconv.Atoi(form.CompletedOrders)
	if err != nil {
		h.render(c, http.StatusBadRequest, form, 0, "Completed orders must be a whole number.")
		return
	}
	hours, err := strconv.ParseFloat(form.TotalHours, 64)
	if err != nil {
		h.render(c, http.StatusBadRequest, form, 0, "Total hours must be a number.")
		return
	}

	file, err := h.generator.Generate(c.Request.Context(), report.Productivity{
		TechnicianName:  form.TechnicianName,
		CompletedOrders: count,
		TotalHours:      hours,
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeValidation) {
			h.render(c, http.StatusBadRequest, form, 0, httperr.Message(err))
			return
		}
		httperr.Internal(c, err)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			zap.L().Warn("remove report file", zap.String("path", file.Path), zap.Error(err))
		}
	}()

	metrics.ReportsGeneratedTotal.Inc()
	if user := session.CurrentUser(c); user != nil {
		h.audit.Dispatch(audit.Event{
			UserID:   &user.ID,
			Action:   audit.ActionReportCreated,
			Entity:   "report",
			Metadata: map[string]any{"report_id": file.ID, "technician": form.TechnicianName},
		})
	}

	c.FileAttachment(file.Path, report.DownloadName)
}

func (h *ReportHandler) render(c *gin.Context, status int, form reportForm, selected uint, message string) {
	_, technicians, err := h.optionsUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.HTML(status, "report.html", gin.H{
		"Title":              "Report",
		"User":               session.CurrentUser(c),
		"Technicians":        technicians,
		"SelectedTechnician": selected,
		"Form":               form,
		"Error":              message,
	})
}
