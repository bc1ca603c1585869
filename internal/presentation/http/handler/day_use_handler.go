package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// DayUseHandler handles walk-in day-use HTTP requests
type DayUseHandler struct {
	dayUseService *service.DayUseService
}

// NewDayUseHandler creates a new day-use handler
func NewDayUseHandler(dayUseService *service.DayUseService) *DayUseHandler {
	return &DayUseHandler{dayUseService: dayUseService}
}

// Create sells a day-use visit
func (h *DayUseHandler) Create(c *gin.Context) {
	var input service.CreateDayUseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	visit, settlement, err := h.dayUseService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Day-use visit created", gin.H{
		"day_use":    visit,
		"settlement": settlement,
	})
}

// List lists day-use visits
func (h *DayUseHandler) List(c *gin.Context) {
	params := &repository.SubscriptionFilterParams{
		Search:     c.Query("search"),
		Pagination: pageParams(c),
	}

	result, err := h.dayUseService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Day-use visits retrieved", result)
}

// Delete removes a day-use record. Admin only.
func (h *DayUseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid day-use ID")
		return
	}

	if err := h.dayUseService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
