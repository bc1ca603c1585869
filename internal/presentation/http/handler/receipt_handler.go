package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// List lists receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	params := &repository.ReceiptFilterParams{
		Type:             enum.ReceiptType(c.Query("type")),
		StaffName:        c.Query("staff_name"),
		IncludeCancelled: c.Query("include_cancelled") == "true",
		Pagination:       pageParams(c),
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			params.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			params.EndDate = &t
		}
	}
	if v := c.Query("member_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			params.MemberID = &id
		}
	}

	result, err := h.receiptService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Receipts retrieved", result)
}

// Get returns one receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", receipt)
}

// GetByNumber returns one receipt by business number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid receipt number")
		return
	}

	receipt, err := h.receiptService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", receipt)
}

// Cancel marks a receipt as cancelled
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	receipt, err := h.receiptService.Cancel(c.Request.Context(), id, GetUserName(c), input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt cancelled", receipt)
}

// Renumber moves a receipt to a manually chosen number. Admin only.
func (h *ReceiptHandler) Renumber(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var input struct {
		NewNumber int `json:"new_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.Renumber(c.Request.Context(), id, input.NewNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt renumbered", receipt)
}

// Delete removes a receipt row permanently. Admin only.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// NextNumber returns the next candidate receipt number
func (h *ReceiptHandler) NextNumber(c *gin.Context) {
	number, err := h.receiptService.NextNumber(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Next receipt number", gin.H{"next_number": number})
}

// ResetCounter overwrites the receipt counter. Admin only.
func (h *ReceiptHandler) ResetCounter(c *gin.Context) {
	var input struct {
		Value int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.receiptService.ResetCounter(c.Request.Context(), input.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt counter reset", gin.H{"value": input.Value})
}
