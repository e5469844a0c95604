package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"bookline/models"
	"bookline/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// BookingHandler serves the agent-facing appointment endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// AgentAppointmentHandler is the single action-oriented entry point: the
// payload's action field selects book, cancel or findNearest.
func (h *BookingHandler) AgentAppointmentHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid input", "details": err.Error()})
		return
	}
	if req.Action == "" {
		req.Action = models.ActionBook
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid input", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case models.ActionBook:
		result, err := h.Service.Book(ctx, req)
		h.respond(c, result, err)
	case models.ActionCancel:
		result, err := h.Service.Cancel(ctx, req)
		h.respond(c, result, err)
	case models.ActionFindNearest:
		result, err := h.Service.FindNearest(ctx, req)
		h.respond(c, result, err)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": fmt.Sprintf("unknown action %q", req.Action)})
	}
}

// TestDriveHandler books a test drive against a vehicle pool. Duration is
// policy-fixed; the payload must name a model or an exact vehicle.
func (h *BookingHandler) TestDriveHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid input", "details": err.Error()})
		return
	}
	req.Action = models.ActionBook
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid input", "details": err.Error()})
		return
	}
	if req.Model == "" && req.VehicleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "model or vehicleId is required"})
		return
	}

	result, err := h.Service.Book(c.Request.Context(), req)
	h.respond(c, result, err)
}

// respond maps service outcomes to the wire contract: success, rejected with a
// stable reason code, validation error, or dependency failure.
func (h *BookingHandler) respond(c *gin.Context, result any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"status": "success", "result": result})
		return
	}

	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": vErr.Message, "field": vErr.Field})
		return
	}

	if rej, ok := booking.AsRejection(err); ok {
		status := http.StatusConflict
		if rej.Reason == booking.ReasonNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"status": "rejected", "reason": rej.Reason, "message": rej.Message})
		return
	}

	var calErr *booking.CalendarInsertError
	if errors.As(err, &calErr) {
		h.Logger.Error("calendar insert failed, booking rolled back", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "reason": "calendar_insert_failed", "error": "could not create the calendar event"})
		return
	}

	h.Logger.Error("booking request failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": "a dependency is unavailable, please retry"})
}
