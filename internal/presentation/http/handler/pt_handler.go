package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// PTHandler handles personal-training HTTP requests
type PTHandler struct {
	ptService *service.PTService
}

// NewPTHandler creates a new PT handler
func NewPTHandler(ptService *service.PTService) *PTHandler {
	return &PTHandler{ptService: ptService}
}

// Create sells a new PT package
func (h *PTHandler) Create(c *gin.Context) {
	var input service.CreatePTInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	pt, settlement, err := h.ptService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "PT package created", gin.H{
		"pt":         pt,
		"settlement": settlement,
	})
}

// Renew renews a PT package
func (h *PTHandler) Renew(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid PT number")
		return
	}

	var input service.RenewPTInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	pt, settlement, err := h.ptService.Renew(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "PT package renewed", gin.H{
		"pt":         pt,
		"settlement": settlement,
	})
}

// PayRemaining pays down PT package debt
func (h *PTHandler) PayRemaining(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid PT number")
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

	pt, settlement, err := h.ptService.PayRemaining(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded", gin.H{
		"pt":         pt,
		"settlement": settlement,
	})
}

// UseSession consumes one PT session
func (h *PTHandler) UseSession(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid PT number")
		return
	}

	pt, err := h.ptService.UseSession(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session used", pt)
}

// List lists PT packages
func (h *PTHandler) List(c *gin.Context) {
	params := &repository.SubscriptionFilterParams{
		Search:     c.Query("search"),
		Pagination: pageParams(c),
	}

	result, err := h.ptService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "PT packages retrieved", result)
}

// GetByNumber returns one PT package by business number
func (h *PTHandler) GetByNumber(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid PT number")
		return
	}

	pt, err := h.ptService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "PT package retrieved", pt)
}

// Delete removes a PT package. Admin only.
func (h *PTHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid PT ID")
		return
	}

	if err := h.ptService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
