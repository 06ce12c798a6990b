package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alshifa-clinic/booking-api/internal/handler"
	"github.com/alshifa-clinic/booking-api/internal/middleware"
	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/service/availability"
	"github.com/alshifa-clinic/booking-api/internal/service/booking"
	"github.com/alshifa-clinic/booking-api/internal/service/lifecycle"
	"github.com/alshifa-clinic/booking-api/internal/service/query"
)

type Handler struct {
	booking      *booking.Service
	lifecycle    *lifecycle.Service
	query        *query.Service
	availability *availability.Service
}

func NewHandler(b *booking.Service, l *lifecycle.Service, q *query.Service, a *availability.Service) *Handler {
	return &Handler{booking: b, lifecycle: l, query: q, availability: a}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments", h.SubmitBooking)
	rg.GET("/appointments", h.ListAppointments)
	rg.GET("/appointments/unavailable-slots", h.UnavailableSlots)
	rg.PATCH("/appointments/:id/status", h.ChangeStatus)
	rg.PATCH("/appointments/:id/payment", h.MarkPaid)
	rg.DELETE("/appointments/:id", h.DeleteAppointment)
}

// SubmitBooking books a slot for the authenticated patient. The patient
// identity on the record always comes from the token, never the body.
func (h *Handler) SubmitBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.Response{Status: "error", Message: "not authenticated"})
		return
	}

	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: err.Error()})
		return
	}
	req.PatientID = actor.ID
	req.PatientName = actor.Name

	apt, err := h.booking.Book(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusCreated, apt)
}

// UnavailableSlots returns the times already booked for a doctor on a date,
// used to grey out the slot picker before submission.
func (h *Handler) UnavailableSlots(c *gin.Context) {
	doctorID := c.Query("doctor_id")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: "doctor_id and date are required"})
		return
	}

	taken, err := h.availability.UnavailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	slots := make([]string, 0, len(taken))
	for t := range taken {
		slots = append(slots, t)
	}
	handler.RespondSuccess(c, http.StatusOK, gin.H{"unavailable_slots": slots})
}

type changeStatusRequest struct {
	Status model.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.Response{Status: "error", Message: "not authenticated"})
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: err.Error()})
		return
	}

	if err := h.lifecycle.Transition(c.Request.Context(), c.Param("id"), actor, req.Status); err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *Handler) MarkPaid(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.Response{Status: "error", Message: "not authenticated"})
		return
	}

	if err := h.lifecycle.MarkPaid(c.Request.Context(), c.Param("id"), actor); err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "payment_status": model.PaymentStatusPaid})
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.Response{Status: "error", Message: "not authenticated"})
		return
	}

	if err := h.lifecycle.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// ListAppointments scopes the view to the caller: patients see their own
// bookings, doctors their assigned queue, admins everything (optionally
// filtered).
func (h *Handler) ListAppointments(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.Response{Status: "error", Message: "not authenticated"})
		return
	}

	ctx := c.Request.Context()

	switch actor.Role {
	case model.RolePatient:
		appointments, err := h.query.ForPatient(ctx, actor.ID)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		handler.RespondSuccess(c, http.StatusOK, appointments)

	case model.RoleDoctor:
		filter := model.AppointmentFilter{
			Today:    c.Query("view") == "today",
			Upcoming: c.Query("view") == "upcoming",
		}
		appointments, err := h.query.ForAssignedDoctor(ctx, actor.ID, actor.Name, filter)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		handler.RespondSuccess(c, http.StatusOK, appointments)

	case model.RoleAdmin:
		filter := model.AppointmentFilter{
			PatientID: c.Query("patient_id"),
			Doctor:    c.Query("doctor"),
			Date:      c.Query("date"),
			Status:    model.AppointmentStatus(c.Query("status")),
		}
		appointments, err := h.query.List(ctx, filter)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		handler.RespondSuccess(c, http.StatusOK, appointments)

	default:
		c.JSON(http.StatusForbidden, handler.Response{Status: "error", Message: "insufficient permissions"})
	}
}
