package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/maintenance-orders/internal/audit"
	"github.com/BruksfildServices01/maintenance-orders/internal/config"
	"github.com/BruksfildServices01/maintenance-orders/internal/db/dbtest"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopSink struct{}

func (nopSink) Dispatch(audit.Event) {}

type app struct {
	t         *testing.T
	db        *gorm.DB
	router    *gin.Engine
	reportDir string

	manager *models.User
	tech    *models.User
	pump    *models.Equipment
}

func newApp(t *testing.T) *app {
	t.Helper()
	return newAppIn(t, "UTC")
}

func newAppIn(t *testing.T, tz string) *app {
	t.Helper()

	gdb := dbtest.New(t)
	cfg := &config.Config{
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
		Timezone:   tz,
		Report:     config.ReportConfig{Dir: t.TempDir()},
	}

	router, err := NewRouter(Deps{
		DB:       gdb,
		Config:   cfg,
		Sessions: session.NewManager(session.NewGormStore(gdb), cfg.SecretKey, cfg.SessionTTL, false),
		Audit:    nopSink{},
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)

	a := &app{t: t, db: gdb, router: router, reportDir: cfg.Report.Dir}
	a.manager = a.user("Maria", "boss@x.com", "boss-pw", models.RoleManager)
	a.tech = a.user("Tom", "tech@x.com", "pw", models.RoleTechnician)
	a.pump = dbtest.CreateEquipment(t, gdb, "Pump", "Boiler room")
	return a
}

func (a *app) user(name, email, password, role string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(a.t, err)
	return dbtest.CreateUser(a.t, a.db, name, email, string(hash), role)
}

func (a *app) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		return a.doRaw(method, path, "", cookie)
	}
	return a.doRaw(method, path, form.Encode(), cookie)
}

func (a *app) doRaw(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) login(email, password string) *http.Cookie {
	a.t.Helper()
	w := a.do(http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(a.t, http.StatusFound, w.Code)
	require.Equal(a.t, "/", w.Header().Get("Location"))
	return findCookie(w)
}

func findCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}

func (a *app) countSessions() int64 {
	var n int64
	require.NoError(a.t, a.db.Model(&models.Session{}).Count(&n).Error)
	return n
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	a := newApp(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/create-order"},
		{http.MethodPost, "/create-order"},
		{http.MethodPost, "/generate-report"},
		{http.MethodPost, "/orders/1/start"},
	} {
		w := a.do(r.method, r.path, nil, nil)
		assert.Equal(t, http.StatusFound, w.Code, r.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), r.path)
	}
}

func TestLogin(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)

	cookie := a.login("tech@x.com", "pw")
	require.NotNil(t, cookie)
	assert.Equal(t, int64(1), a.countSessions())

	w = a.do(http.MethodGet, "/orders", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tom (technician)")
}

func TestLoginFailures(t *testing.T) {
	a := newApp(t)

	for _, creds := range [][2]string{
		{"tech@x.com", "wrong"},
		{"TECH@x.com", "pw"},
		{"nobody@x.com", "pw"},
		{"", ""},
	} {
		w := a.do(http.MethodPost, "/login", url.Values{"email": {creds[0]}, "password": {creds[1]}}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, creds[0])
		assert.Contains(t, w.Body.String(), "Invalid email or password.")
		assert.Nil(t, findCookie(w))
	}
	assert.Zero(t, a.countSessions())
}

func TestLogout(t *testing.T) {
	a := newApp(t)
	cookie := a.login("tech@x.com", "pw")

	w := a.do(http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, a.countSessions())

	w = a.do(http.MethodGet, "/orders", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	w = a.do(http.MethodGet, "/logout", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestCreateOrderFlow(t *testing.T) {
	a := newApp(t)
	cookie := a.login("boss@x.com", "boss-pw")

	w := a.do(http.MethodGet, "/create-order", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pump (Boiler room)")
	assert.Contains(t, w.Body.String(), ">Tom<")

	w = a.do(http.MethodPost, "/create-order", url.Values{
		"description":   {"Fix pump"},
		"equipment_id":  {uintStr(a.pump.ID)},
		"technician_id": {uintStr(a.tech.ID)},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/orders", w.Header().Get("Location"))

	var o models.Order
	require.NoError(t, a.db.First(&o).Error)
	assert.Equal(t, "pending", o.Status)
	assert.False(t, o.AssignedAt.IsZero())
	assert.Nil(t, o.StartedAt)
	assert.Nil(t, o.CompletedAt)

	w = a.do(http.MethodGet, "/orders", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fix pump")
	assert.Contains(t, body, "Pump")
	assert.Contains(t, body, "Tom")
	assert.Contains(t, body, "Pending")
}

func TestCreateOrderRejectsInvalidInput(t *testing.T) {
	a := newApp(t)
	cookie := a.login("boss@x.com", "boss-pw")

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			name:    "missing description",
			form:    url.Values{"description": {""}, "equipment_id": {uintStr(a.pump.ID)}, "technician_id": {uintStr(a.tech.ID)}},
			message: "Description is required.",
		},
		{
			name:    "unknown equipment",
			form:    url.Values{"description": {"x"}, "equipment_id": {"999"}, "technician_id": {uintStr(a.tech.ID)}},
			message: "The selected equipment does not exist.",
		},
		{
			name:    "unknown technician",
			form:    url.Values{"description": {"x"}, "equipment_id": {uintStr(a.pump.ID)}, "technician_id": {"999"}},
			message: "The selected technician does not exist.",
		},
		{
			name:    "garbage ids",
			form:    url.Values{"description": {"x"}, "equipment_id": {"abc"}, "technician_id": {uintStr(a.tech.ID)}},
			message: "Select the equipment to service.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/create-order", tt.form, cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}

	var n int64
	require.NoError(t, a.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTechnicianCannotCreateOrders(t *testing.T) {
	a := newApp(t)
	cookie := a.login("tech@x.com", "pw")

	w := a.do(http.MethodGet, "/create-order", nil, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/create-order", url.Values{
		"description":   {"x"},
		"equipment_id":  {uintStr(a.pump.ID)},
		"technician_id": {uintStr(a.tech.ID)},
	}, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderTransitions(t *testing.T) {
	a := newApp(t)
	o := &models.Order{
		Description:  "Fix pump",
		AssignedAt:   time.Now().Add(-time.Hour),
		Status:       "pending",
		EquipmentID:  a.pump.ID,
		TechnicianID: a.tech.ID,
	}
	require.NoError(t, a.db.Create(o).Error)
	cookie := a.login("tech@x.com", "pw")
	path := "/orders/" + uintStr(o.ID)

	w := a.do(http.MethodPost, path+"/complete", nil, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, path+"/start", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	w = a.do(http.MethodPost, path+"/complete", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	var stored models.Order
	require.NoError(t, a.db.First(&stored, o.ID).Error)
	assert.Equal(t, "completed", stored.Status)
	require.NotNil(t, stored.StartedAt)
	require.NotNil(t, stored.CompletedAt)

	w = a.do(http.MethodPost, "/orders/999/start", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateReport(t *testing.T) {
	a := newApp(t)
	cookie := a.login("boss@x.com", "boss-pw")

	w := a.do(http.MethodPost, "/generate-report", url.Values{
		"technician_name":  {"Jane Doe"},
		"completed_orders": {"5"},
		"total_hours":      {"12.5"},
	}, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="productivity_report.pdf"`, w.Header().Get("Content-Disposition"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "%PDF"))
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "5")
	assert.Contains(t, body, "12.5")

	entries, err := os.ReadDir(a.reportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateReportRejectsInvalidInput(t *testing.T) {
	a := newApp(t)
	cookie := a.login("boss@x.com", "boss-pw")

	for _, form := range []url.Values{
		{"technician_name": {"Jane"}, "completed_orders": {"five"}, "total_hours": {"1"}},
		{"technician_name": {"Jane"}, "completed_orders": {"-1"}, "total_hours": {"1"}},
		{"technician_name": {"Jane"}, "completed_orders": {"1"}, "total_hours": {"-2"}},
		{"technician_name": {""}, "completed_orders": {"1"}, "total_hours": {"1"}},
	} {
		w := a.do(http.MethodPost, "/generate-report", form, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, form.Encode())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	}
}

func TestReportFormPrefillsFromRecords(t *testing.T) {
	a := newApp(t)
	started := time.Now().Add(-3 * time.Hour)
	completed := started.Add(2 * time.Hour)
	require.NoError(t, a.db.Create(&models.Order{
		Description:  "done",
		AssignedAt:   started.Add(-time.Hour),
		StartedAt:    &started,
		CompletedAt:  &completed,
		Status:       "completed",
		EquipmentID:  a.pump.ID,
		TechnicianID: a.tech.ID,
	}).Error)
	cookie := a.login("boss@x.com", "boss-pw")

	w := a.do(http.MethodGet, "/generate-report?technician_id="+uintStr(a.tech.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="technician_name" value="Tom"`)
	assert.Contains(t, body, `value="1"`)
	assert.Contains(t, body, `value="2"`)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	a.do(http.MethodGet, "/orders", nil, nil)
	w = a.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maintenance_http_requests_total")
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestAuditLogs(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.db.Create([]models.AuditLog{
		{UserID: &a.tech.ID, Action: audit.ActionLoginFailed, Entity: "user", Metadata: `{"email":"tech@x.com"}`},
		{UserID: &a.manager.ID, Action: audit.ActionOrderCreated, Entity: "order"},
	}).Error)

	techCookie := a.login("tech@x.com", "pw")
	w := a.do(http.MethodGet, "/audit-logs", nil, techCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	cookie := a.login("boss@x.com", "boss-pw")
	w = a.do(http.MethodGet, "/audit-logs", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2 entries")

	w = a.do(http.MethodGet, "/audit-logs?action="+audit.ActionOrderCreated, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "1 entries")
	assert.Contains(t, body, audit.ActionOrderCreated)
	assert.NotContains(t, body, "<td>"+audit.ActionLoginFailed+"</td>")
}

func TestAuditLogsFilterByLocalDay(t *testing.T) {
	a := newAppIn(t, "Asia/Tokyo")
	require.NoError(t, a.db.Create([]models.AuditLog{
		{Action: "late_evening", Entity: "user", CreatedAt: time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)},
		{Action: "after_midnight", Entity: "user", CreatedAt: time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)},
	}).Error)
	cookie := a.login("boss@x.com", "boss-pw")

	w := a.do(http.MethodGet, "/audit-logs?entity=user&from=2026-03-02&to=2026-03-02", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<td>after_midnight</td>")
	assert.NotContains(t, body, "<td>late_evening</td>")
	assert.Contains(t, body, "2026-03-02 01:00")
}

func TestMalformedFormsAreRejected(t *testing.T) {
	a := newApp(t)
	const broken = "description=%zz&technician_name=%zz&email=%zz"

	w := a.doRaw(http.MethodPost, "/login", broken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, findCookie(w))
	assert.Zero(t, a.countSessions())

	cookie := a.login("boss@x.com", "boss-pw")

	w = a.doRaw(http.MethodPost, "/create-order", broken, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "The submitted data is invalid.")

	w = a.doRaw(http.MethodPost, "/generate-report", broken, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "The submitted data is invalid.")

	var n int64
	require.NoError(t, a.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGenerateReportRejectsUnprintableName(t *testing.T) {
	a := newApp(t)
	cookie := a.login("boss@x.com", "boss-pw")

	w := a.do(http.MethodPost, "/generate-report", url.Values{
		"technician_name":  {"王伟"},
		"completed_orders": {"1"},
		"total_hours":      {"1"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Technician name contains characters the report cannot print.")

	w = a.do(http.MethodPost, "/generate-report", url.Values{
		"technician_name":  {"Łukasz Wójcik"},
		"completed_orders": {"1"},
		"total_hours":      {"1"},
	}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
