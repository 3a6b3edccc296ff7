package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
	"github.com/BruksfildServices01/maintenance-orders/internal/models"
	"github.com/BruksfildServices01/maintenance-orders/internal/session"
	ucOrder "github.com/BruksfildServices01/maintenance-orders/internal/usecase/order"
)

// ======================================================
// HANDLER
// ======================================================

type OrderHandler struct {
	listUC     *ucOrder.ListOrders
	createUC   *ucOrder.CreateOrder
	optionsUC  *ucOrder.FormOptions
	startUC    *ucOrder.StartOrder
	completeUC *ucOrder.CompleteOrder
}

func NewOrderHandler(
	listUC *ucOrder.ListOrders,
	createUC *ucOrder.CreateOrder,
	optionsUC *ucOrder.FormOptions,
	startUC *ucOrder.StartOrder,
	completeUC *ucOrder.CompleteOrder,
) *OrderHandler {
	return &OrderHandler{
		listUC:     listUC,
		createUC:   createUC,
		optionsUC:  optionsUC,
		startUC:    startUC,
		completeUC: completeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateOrderRequest struct {
	Description  string `form:"description"`
	EquipmentID  string `form:"equipment_id"`
	TechnicianID string `form:"technician_id"`
}

// createOrderForm is what the form template reads back on a failed submit.
type createOrderForm struct {
	Description  string
	EquipmentID  uint
	TechnicianID uint
}

// ======================================================
// LIST
// ======================================================

func (h *OrderHandler) List(c *gin.Context) {
	rows, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.HTML(http.StatusOK, "orders.html", gin.H{
		"Title":  "Orders",
		"User":   session.CurrentUser(c),
		"Orders": rows,
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *OrderHandler) CreateForm(c *gin.Context) {
	user := session.CurrentUser(c)
	if !user.IsManager() {
		httperr.Write(c, httperr.ErrBusiness(httperr.CodeForbidden))
		return
	}

	h.renderCreateForm(c, http.StatusOK, createOrderForm{}, "")
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.renderCreateForm(c, http.StatusBadRequest, createOrderForm{}, httperr.Message(httperr.ErrBusiness(httperr.CodeValidation)))
		return
	}

	form := createOrderForm{
		Description:  req.Description,
		EquipmentID:  parseID(req.EquipmentID),
		TechnicianID: parseID(req.TechnicianID),
	}

	_, err := h.createUC.Execute(c.Request.Context(), ucOrder.CreateOrderInput{
		Actor:        session.CurrentUser(c),
		Description:  form.Description,
		EquipmentID:  form.EquipmentID,
		TechnicianID: form.TechnicianID,
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeValidation) {
			h.renderCreateForm(c, http.StatusBadRequest, form, httperr.Message(err))
			return
		}
		httperr.Write(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/orders")
}

func (h *OrderHandler) renderCreateForm(c *gin.Context, status int, form createOrderForm, message string) {
	equipment, technicians, err := h.optionsUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.HTML(status, "create_order.html", gin.H{
		"Title":       "New order",
		"User":        session.CurrentUser(c),
		"Equipment":   equipment,
		"Technicians": technicians,
		"Form":        form,
		"Error":       message,
	})
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *OrderHandler) Start(c *gin.Context) {
	h.transition(c, h.startUC.Execute)
}

func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.completeUC.Execute)
}

func (h *OrderHandler) transition(
	c *gin.Context,
	exec func(ctx context.Context, actor *models.User, orderID uint) (*models.Order, error),
) {
	id := parseID(c.Param("id"))
	if id == 0 {
		httperr.Write(c, httperr.ErrBusiness(httperr.CodeOrderNotFound))
		return
	}

	if _, err := exec(c.Request.Context(), session.CurrentUser(c), id); err != nil {
		httperr.Write(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/orders")
}

func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
