package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alshifa-clinic/booking-api/internal/handler"
	"github.com/alshifa-clinic/booking-api/internal/middleware"
	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/service/directory"
)

type Handler struct {
	service *directory.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *directory.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

// RegisterRoutes exposes reads publicly (the directory is the clinic's
// public catalogue) and writes to admins only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/departments", h.ListDepartments)
	rg.GET("/departments/:id", h.GetDepartment)
	rg.GET("/doctors", h.ListDoctors)
	rg.GET("/doctors/:id", h.GetDoctor)

	admin := rg.Group("", h.auth.Authenticate(), h.auth.RequireRole(model.RoleAdmin))
	admin.POST("/doctors", h.CreateDoctor)
	admin.PUT("/doctors/:id", h.UpdateDoctor)
	admin.DELETE("/doctors/:id", h.DeleteDoctor)
	admin.POST("/departments", h.CreateDepartment)
	admin.PUT("/departments/:id", h.UpdateDepartment)
	admin.DELETE("/departments/:id", h.DeleteDepartment)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, departments)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	department, err := h.service.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, department)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.service.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, doctor)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: err.Error()})
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusCreated, doctor)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: err.Error()})
		return
	}

	doctor, err := h.service.UpdateDoctor(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	if err := h.service.DeleteDoctor(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: err.Error()})
		return
	}

	department, err := h.service.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusCreated, department)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	var req model.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.Response{Status: "error", Message: err.Error()})
		return
	}

	department, err := h.service.UpdateDepartment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, department)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	if err := h.service.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.RespondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}
