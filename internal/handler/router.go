package handler

import (
	"net/http"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires every route. Everything except signup, token exchange
// and the health probe sits behind bearer auth.
func SetupRouter(h *Handler, userService *service.UserService, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(LoggerMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	authPublic := v1.Group("/auth")
	{
		authPublic.POST("/signup", h.Signup)
		authPublic.POST("/token", h.Login)
	}

	authed := v1.Group("")
	authed.Use(AuthMiddleware(cfg, userService))
	{
		authed.POST("/auth/refresh", h.Refresh)
		authed.GET("/auth/me", h.Me)

		users := authed.Group("/users")
		{
			users.GET("", h.ListUsers)
			users.GET("/:id", h.GetUser)
			users.PATCH("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeleteUser)
		}

		groups := authed.Group("/groups")
		{
			groups.GET("", h.ListGroups)
			groups.POST("", h.CreateGroup)
			groups.GET("/mine", h.ListMyGroups)
			groups.GET("/invitation/:code", h.ValidateInvitation)
			groups.POST("/join/:code", h.JoinByInvitation)
			groups.GET("/:id", h.GetGroup)
			groups.PATCH("/:id", h.UpdateGroup)
			groups.DELETE("/:id", h.DeleteGroup)
			groups.GET("/:id/members", h.ListGroupMembers)
			groups.DELETE("/:id/members/me", h.LeaveGroup)
			groups.POST("/:id/invitation", h.CreateInvitation)
		}

		spendings := authed.Group("/spendings")
		{
			spendings.POST("", h.CreateSpending)
			spendings.GET("/mine", h.ListMySpendings)
			spendings.GET("/group/:group_id", h.ListSpendingsByGroup)
			spendings.GET("/:id", h.GetSpending)
			spendings.PATCH("/:id", h.UpdateSpending)
			spendings.DELETE("/:id", h.DeleteSpending)
		}

		reimbursements := authed.Group("/reimbursements")
		{
			reimbursements.GET("/mine", h.ListMyReimbursements)
			reimbursements.GET("/mine/unpaid", h.ListMyUnpaidReimbursements)
			reimbursements.GET("/spending/:spending_id", h.ListReimbursementsBySpending)
			reimbursements.POST("/:spending_id/:user_id/paid", h.MarkReimbursementPaid)
			reimbursements.DELETE("/:spending_id/:user_id", h.DeleteReimbursement)
			reimbursements.GET("/owed-by/:user_id", h.TotalOwedBy)
			reimbursements.GET("/owed-to/:user_id", h.TotalOwedTo)
			reimbursements.GET("/summary/:user_id", h.Summary)
		}

		documents := authed.Group("/documents")
		{
			documents.POST("", h.CreateDocument)
			documents.GET("/mine", h.ListMyDocuments)
			documents.GET("/group/:group_id", h.ListDocumentsByGroup)
			documents.GET("/:id", h.GetDocument)
			documents.DELETE("/:id", h.DeleteDocument)
		}
	}

	return router
}
