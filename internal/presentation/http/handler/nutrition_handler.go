package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// NutritionHandler handles nutrition-program HTTP requests
type NutritionHandler struct {
	nutritionService *service.NutritionService
}

// NewNutritionHandler creates a new nutrition handler
func NewNutritionHandler(nutritionService *service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// Create sells a new nutrition program
func (h *NutritionHandler) Create(c *gin.Context) {
	var input service.CreateNutritionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	program, settlement, err := h.nutritionService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Nutrition program created", gin.H{
		"nutrition":  program,
		"settlement": settlement,
	})
}

// Renew renews a nutrition program
func (h *NutritionHandler) Renew(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid nutrition number")
		return
	}

	var input service.RenewNutritionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	program, settlement, err := h.nutritionService.Renew(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Nutrition program renewed", gin.H{
		"nutrition":  program,
		"settlement": settlement,
	})
}

// PayRemaining pays down nutrition program debt
func (h *NutritionHandler) PayRemaining(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid nutrition number")
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

	program, settlement, err := h.nutritionService.PayRemaining(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded", gin.H{
		"nutrition":  program,
		"settlement": settlement,
	})
}

// UseFollowUp consumes one follow-up visit
func (h *NutritionHandler) UseFollowUp(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid nutrition number")
		return
	}

	program, err := h.nutritionService.UseFollowUp(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Follow-up used", program)
}

// List lists nutrition programs
func (h *NutritionHandler) List(c *gin.Context) {
	params := &repository.SubscriptionFilterParams{
		Search:     c.Query("search"),
		Pagination: pageParams(c),
	}

	result, err := h.nutritionService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Nutrition programs retrieved", result)
}

// GetByNumber returns one nutrition program by business number
func (h *NutritionHandler) GetByNumber(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid nutrition number")
		return
	}

	program, err := h.nutritionService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Nutrition program retrieved", program)
}

// Delete removes a nutrition record. Admin only.
func (h *NutritionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid nutrition ID")
		return
	}

	if err := h.nutritionService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
