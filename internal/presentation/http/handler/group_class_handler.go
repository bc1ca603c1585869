package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// GroupClassHandler handles group-class HTTP requests
type GroupClassHandler struct {
	classService *service.GroupClassService
}

// NewGroupClassHandler creates a new group-class handler
func NewGroupClassHandler(classService *service.GroupClassService) *GroupClassHandler {
	return &GroupClassHandler{classService: classService}
}

// Create sells a new group-class package
func (h *GroupClassHandler) Create(c *gin.Context) {
	var input service.CreateGroupClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	class, settlement, err := h.classService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Group class created", gin.H{
		"group_class": class,
		"settlement":  settlement,
	})
}

// Renew renews a group-class package
func (h *GroupClassHandler) Renew(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid class number")
		return
	}

	var input service.RenewGroupClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	class, settlement, err := h.classService.Renew(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Group class renewed", gin.H{
		"group_class": class,
		"settlement":  settlement,
	})
}

// SellDayUse sells a day-use visit through the group-class desk
func (h *GroupClassHandler) SellDayUse(c *gin.Context) {
	var input service.GroupClassDayUseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	class, settlement, err := h.classService.SellDayUse(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Day-use visit created", gin.H{
		"group_class": class,
		"settlement":  settlement,
	})
}

// PayRemaining pays down group-class package debt
func (h *GroupClassHandler) PayRemaining(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid class number")
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

	class, settlement, err := h.classService.PayRemaining(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded", gin.H{
		"group_class": class,
		"settlement":  settlement,
	})
}

// CheckIn consumes one session by scanned barcode
func (h *GroupClassHandler) CheckIn(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		response.BadRequest(c, "Missing barcode")
		return
	}

	class, err := h.classService.CheckInByBarcode(c.Request.Context(), barcode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Check-in recorded", class)
}

// List lists group-class packages
func (h *GroupClassHandler) List(c *gin.Context) {
	params := &repository.SubscriptionFilterParams{
		Search:     c.Query("search"),
		Pagination: pageParams(c),
	}

	result, err := h.classService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Group classes retrieved", result)
}

// GetByNumber returns one group-class package by business number
func (h *GroupClassHandler) GetByNumber(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid class number")
		return
	}

	class, err := h.classService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Group class retrieved", class)
}

// Delete removes a group-class record. Admin only.
func (h *GroupClassHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid class ID")
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
