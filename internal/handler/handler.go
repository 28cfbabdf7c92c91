package handler

import (
	"errors"
	"time"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/invite"
	"github.com/ComePicard/Cooloc/internal/repository"
	"github.com/ComePicard/Cooloc/internal/service"
	"github.com/ComePicard/Cooloc/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler bundles every service the HTTP layer dispatches to.
type Handler struct {
	authService          *service.AuthService
	userService          *service.UserService
	groupService         *service.GroupService
	spendingService      *service.SpendingService
	reimbursementService *service.ReimbursementService
	documentService      *service.DocumentService
}

func NewHandler(db *gorm.DB, rdb *redis.Client, registry *invite.Registry, cfg *config.Config) *Handler {
	return &Handler{
		authService:          service.NewAuthService(db, cfg),
		userService:          service.NewUserService(db),
		groupService:         service.NewGroupService(db, registry, cfg),
		spendingService:      service.NewSpendingService(db, cfg),
		reimbursementService: service.NewReimbursementService(db, rdb, cfg),
		documentService:      service.NewDocumentService(db),
	}
}

// respondError maps core errors onto the response envelope. Not-found and
// conflict families keep distinct business codes so clients can react.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrGroupNotFound):
		response.NotFound(c, response.CodeGroupNotFound, err.Error())
	case errors.Is(err, repository.ErrSpendingNotFound):
		response.NotFound(c, response.CodeSpendingNotFound, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		response.NotFound(c, response.CodeUserNotFound, err.Error())
	case errors.Is(err, repository.ErrReimbursementNotFound):
		response.NotFound(c, response.CodeReimbursementNotFound, err.Error())
	case errors.Is(err, repository.ErrDocumentNotFound):
		response.NotFound(c, response.CodeDocumentNotFound, err.Error())
	case errors.Is(err, invite.ErrCodeNotFound):
		response.NotFound(c, response.CodeInvitationInvalid, err.Error())
	case errors.Is(err, service.ErrNoMembers):
		response.NotFound(c, response.CodeGroupNotFound, err.Error())
	case errors.Is(err, service.ErrOwnerNotMember):
		response.Forbidden(c, response.CodeNotGroupMember, err.Error())
	case errors.Is(err, service.ErrSpendingLocked):
		response.Conflict(c, response.CodeSpendingLocked, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		response.Conflict(c, response.CodeEmailTaken, err.Error())
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrMissingField):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// ============================================================
// Auth
// ============================================================

// Signup registers an account and logs it in.
// POST /api/v1/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	tokens, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tokens)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a token pair.
// POST /api/v1/auth/token
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tokens)
}

// Refresh rotates the token pair for the authenticated user.
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	user := CurrentUser(c)
	tokens, err := h.authService.Refresh(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tokens)
}

// Me echoes the authenticated account.
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, CurrentUser(c))
}

// ============================================================
// Users
// ============================================================

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.userService.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "user deleted"})
}

// ============================================================
// Groups
// ============================================================

func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, groups)
}

func (h *Handler) GetGroup(c *gin.Context) {
	group, err := h.groupService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, group)
}

// CreateGroup creates a group; the creator joins it automatically.
// POST /api/v1/groups
func (h *Handler) CreateGroup(c *gin.Context) {
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), &req, CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, group)
}

func (h *Handler) UpdateGroup(c *gin.Context) {
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, group)
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.groupService.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "group deleted"})
}

func (h *Handler) ListGroupMembers(c *gin.Context) {
	members, err := h.groupService.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, members)
}

// ListMyGroups lists the groups the caller belongs to.
// GET /api/v1/groups/mine
func (h *Handler) ListMyGroups(c *gin.Context) {
	groups, err := h.groupService.GroupsOfUser(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, groups)
}

// LeaveGroup removes the caller from a group.
// DELETE /api/v1/groups/:id/members/me
func (h *Handler) LeaveGroup(c *gin.Context) {
	if err := h.groupService.RemoveMember(c.Request.Context(), CurrentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "left group"})
}

type createInvitationRequest struct {
	// Absent means the configured default; an explicit 0 issues a code
	// that is already expired.
	TTLMinutes *int `json:"ttl_minutes"`
}

// CreateInvitation issues an invitation code for a group.
// POST /api/v1/groups/:id/invitation
func (h *Handler) CreateInvitation(c *gin.Context) {
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	invitation, err := h.groupService.CreateInvitation(c.Request.Context(), c.Param("id"), req.TTLMinutes)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, invitation)
}

// ValidateInvitation resolves a code to its group without joining.
// GET /api/v1/groups/invitation/:code
func (h *Handler) ValidateInvitation(c *gin.Context) {
	group, err := h.groupService.ValidateInvitation(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, group)
}

// JoinByInvitation adds the caller to the group behind a live code.
// POST /api/v1/groups/join/:code
func (h *Handler) JoinByInvitation(c *gin.Context) {
	group, err := h.groupService.JoinByCode(c.Request.Context(), c.Param("code"), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, group)
}

// ============================================================
// Spendings
// ============================================================

func (h *Handler) GetSpending(c *gin.Context) {
	spending, err := h.spendingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, spending)
}

func (h *Handler) ListSpendingsByGroup(c *gin.Context) {
	spendings, err := h.spendingService.ListByGroup(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, spendings)
}

func (h *Handler) ListMySpendings(c *gin.Context) {
	spendings, err := h.spendingService.ListByOwner(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, spendings)
}

// CreateSpending records an expense and splits it across the other group
// members.
// POST /api/v1/spendings
func (h *Handler) CreateSpending(c *gin.Context) {
	var req service.CreateSpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	spending, err := h.spendingService.Create(c.Request.Context(), &req, CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, spending)
}

func (h *Handler) UpdateSpending(c *gin.Context) {
	var req service.UpdateSpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	spending, err := h.spendingService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, spending)
}

func (h *Handler) DeleteSpending(c *gin.Context) {
	if err := h.spendingService.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "spending deleted"})
}

// ============================================================
// Reimbursements
// ============================================================

func (h *Handler) ListReimbursementsBySpending(c *gin.Context) {
	reimbursements, err := h.reimbursementService.ListBySpending(c.Request.Context(), c.Param("spending_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, reimbursements)
}

func (h *Handler) ListMyReimbursements(c *gin.Context) {
	reimbursements, err := h.reimbursementService.ListByUser(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, reimbursements)
}

func (h *Handler) ListMyUnpaidReimbursements(c *gin.Context) {
	reimbursements, err := h.reimbursementService.ListUnpaidByUser(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, reimbursements)
}

// MarkReimbursementPaid settles one debtor's share of a spending.
// POST /api/v1/reimbursements/:spending_id/:user_id/paid
func (h *Handler) MarkReimbursementPaid(c *gin.Context) {
	reimbursement, err := h.reimbursementService.MarkPaid(
		c.Request.Context(),
		c.Param("spending_id"),
		c.Param("user_id"),
		time.Now(),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, reimbursement)
}

func (h *Handler) DeleteReimbursement(c *gin.Context) {
	err := h.reimbursementService.Remove(c.Request.Context(), c.Param("spending_id"), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "reimbursement deleted"})
}

func (h *Handler) TotalOwedBy(c *gin.Context) {
	total, err := h.reimbursementService.TotalOwedBy(c.Request.Context(), h.targetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": h.targetUserID(c), "total_owed": total})
}

func (h *Handler) TotalOwedTo(c *gin.Context) {
	total, err := h.reimbursementService.TotalOwedTo(c.Request.Context(), h.targetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": h.targetUserID(c), "total_owed": total})
}

// Summary reports owed-by, owed-to and net balance for a user.
// GET /api/v1/reimbursements/summary/:user_id
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.reimbursementService.Summary(c.Request.Context(), h.targetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, summary)
}

// targetUserID resolves the :user_id path param, with "me" as an alias for
// the caller.
func (h *Handler) targetUserID(c *gin.Context) string {
	id := c.Param("user_id")
	if id == "" || id == "me" {
		return CurrentUser(c).ID
	}
	return id
}

// ============================================================
// Documents
// ============================================================

func (h *Handler) GetDocument(c *gin.Context) {
	document, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, document)
}

func (h *Handler) ListDocumentsByGroup(c *gin.Context) {
	documents, err := h.documentService.ListByGroup(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, documents)
}

func (h *Handler) ListMyDocuments(c *gin.Context) {
	documents, err := h.documentService.ListByOwner(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, documents)
}

func (h *Handler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	document, err := h.documentService.Create(c.Request.Context(), &req, CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, document)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	if err := h.documentService.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "document deleted"})
}
