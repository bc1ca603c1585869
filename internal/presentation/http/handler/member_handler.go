package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/dto/response"
)

// MemberHandler handles membership HTTP requests
type MemberHandler struct {
	memberService     *service.MemberService
	attendanceService *service.AttendanceService
	pointsLedger      *service.PointsLedger
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService, attendanceService *service.AttendanceService, pointsLedger *service.PointsLedger) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		attendanceService: attendanceService,
		pointsLedger:      pointsLedger,
	}
}

// Create sells a new membership
func (h *MemberHandler) Create(c *gin.Context) {
	var input service.CreateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	member, settlement, err := h.memberService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Membership created", gin.H{
		"member":     member,
		"settlement": settlement,
	})
}

// Renew renews a membership
func (h *MemberHandler) Renew(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid member number")
		return
	}

	var input service.RenewMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	member, settlement, err := h.memberService.Renew(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Membership renewed", gin.H{
		"member":     member,
		"settlement": settlement,
	})
}

// Upgrade upgrades a membership mid-term
func (h *MemberHandler) Upgrade(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid member number")
		return
	}

	var input service.UpgradeMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if input.StaffName == "" {
		input.StaffName = GetUserName(c)
	}

	member, settlement, err := h.memberService.Upgrade(c.Request.Context(), number, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Membership upgraded", gin.H{
		"member":     member,
		"settlement": settlement,
	})
}

// List lists members
func (h *MemberHandler) List(c *gin.Context) {
	params := &repository.MemberFilterParams{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
		Pagination: pageParams(c),
	}

	result, err := h.memberService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Members retrieved", result)
}

// Get returns one member by ID
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member retrieved", member)
}

// GetByNumber returns one member by business number
func (h *MemberHandler) GetByNumber(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid member number")
		return
	}

	member, err := h.memberService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member retrieved", member)
}

// Update edits non-financial member fields
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	var input service.UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member updated", member)
}

// Delete removes a member record. Admin only.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CheckIn records a member visit
func (h *MemberHandler) CheckIn(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid member number")
		return
	}

	member, earned, err := h.attendanceService.CheckIn(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Check-in recorded", gin.H{
		"member":        member,
		"points_earned": earned,
	})
}

// UseInvitation consumes a guest invitation
func (h *MemberHandler) UseInvitation(c *gin.Context) {
	number, ok := pathNumber(c, "number")
	if !ok {
		response.BadRequest(c, "Invalid member number")
		return
	}

	var input struct {
		GuestName string `json:"guest_name"`
	}
	_ = c.ShouldBindJSON(&input)

	member, earned, err := h.attendanceService.UseInvitation(c.Request.Context(), number, input.GuestName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invitation used", gin.H{
		"member":        member,
		"points_earned": earned,
	})
}

// Points returns a member's point balance and recent ledger entries
func (h *MemberHandler) Points(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	balance, err := h.pointsLedger.Balance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.pointsLedger.History(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Points retrieved", gin.H{
		"balance": balance,
		"history": history,
	})
}
