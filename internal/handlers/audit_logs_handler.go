package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
	auditDateLayout   = "2006-01-02"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

// NewAuditLogsHandler reads the from/to day filters as calendar days in loc.
func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AuditLogsHandler{db: db, loc: loc}
}

type auditFilter struct {
	Action string
	Entity string
	From   string
	To     string
}

// List shows the audit trail newest first. Managers only.
func (h *AuditLogsHandler) List(c *gin.Context) {
	user := session.CurrentUser(c)
	if !user.IsManager() {
		httperr.Write(c, httperr.ErrBusiness(httperr.CodeForbidden))
		return
	}

	filter := auditFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(auditDefaultLimit)))
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if from, err := time.ParseInLocation(auditDateLayout, filter.From, h.loc); err == nil {
		q = q.Where("created_at >= ?", from.UTC())
	}
	if to, err := time.ParseInLocation(auditDateLayout, filter.To, h.loc); err == nil {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, err)
		return
	}

	c.HTML(http.StatusOK, "audit_logs.html", gin.H{
		"Title":    "Audit log",
		"User":     user,
		"Logs":     logs,
		"Filter":   filter,
		"Total":    total,
		"Limit":    limit,
		"Page":     page,
		"PrevPage": page - 1,
		"NextPage": nextPage(page, limit, total),
	})
}

// nextPage returns 0 when page is the last one.
func nextPage(page, limit int, total int64) int {
	if int64(page*limit) >= total {
		return 0
	}
	return page + 1
}
