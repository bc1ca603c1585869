package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// PhysiotherapyHandler handles physiotherapy HTTP requests
type PhysiotherapyHandler struct {
	physioService *service.PhysiotherapyService
}

// NewPhysiotherapyHandler creates a new physiotherapy handler
func NewPhysiotherapyHandler(physioService *service.PhysiotherapyService) *PhysiotherapyHandler {
	return &PhysiotherapyHandler{physioService: physioService}
}

// Create sells a new physiotherapy package
func (h *PhysiotherapyHandler) Create(c *gin.Context) {
	var input service.CreatePhysiotherapyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	physio, settlement, err := h.physioService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Physiotherapy package created", gin.H{
		"physiotherapy": physio,
		"settlement":    settlement,
	})
}

// Renew renews a physiotherapy package
func (h *PhysiotherapyHandler) Renew(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid physiotherapy number")
		return
	}

	var input service.RenewPhysiotherapyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	physio, settlement, err := h.physioService.Renew(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Physiotherapy package renewed", gin.H{
		"physiotherapy": physio,
		"settlement":    settlement,
	})
}

// PayRemaining pays down physiotherapy package debt
func (h *PhysiotherapyHandler) PayRemaining(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid physiotherapy number")
		return
	}

	var input service.PayRemainingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	physio, settlement, err := h.physioService.PayRemaining(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded", gin.H{
		"physiotherapy": physio,
		"settlement":    settlement,
	})
}

// UseSession consumes one physiotherapy session
func (h *PhysiotherapyHandler) UseSession(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid physiotherapy number")
		return
	}

	physio, err := h.physioService.UseSession(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session used", physio)
}

// List lists physiotherapy packages
func (h *PhysiotherapyHandler) List(c *gin.Context) {
	params := &repository.SubscriptionFilterParams{
		Search:     c.Query("search"),
		Pagination: pageParams(c),
	}

	result, err := h.physioService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Physiotherapy packages retrieved", result)
}

// GetByNumber returns one physiotherapy package by business number
func (h *PhysiotherapyHandler) GetByNumber(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid physiotherapy number")
		return
	}

	physio, err := h.physioService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Physiotherapy package retrieved", physio)
}

// Delete removes a physiotherapy record. Admin only.
func (h *PhysiotherapyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid physiotherapy ID")
		return
	}

	if err := h.physioService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
