package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/WalesndWebs/project-prodigyloan/internal/access"
	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", h.RateLimit(), h.Signup)
		auth.POST("/login", h.RateLimit(), h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/me", h.Authenticate(), h.Guard(access.Requirement{}), h.Me)
	}

	api := r.Group("/api", h.Authenticate())
	{
		api.GET("/loan-products", h.ListLoanProducts)
		api.GET("/investment-products", h.ListInvestmentProducts)

		borrower := access.Requirement{Roles: []domain.Role{domain.RoleBorrower}}
		api.POST("/loans", h.Guard(borrower), h.ApplyLoan)
		api.GET("/loans", h.Guard(borrower), h.MyLoans)

		investor := access.Requirement{Roles: []domain.Role{domain.RoleInvestor}}
		api.POST("/investments", h.Guard(investor), h.CreateInvestment)
		api.GET("/investments", h.Guard(investor), h.MyInvestments)

		api.GET("/transactions", h.Guard(access.Requirement{}), h.MyTransactions)

		// each admin route is scoped to its department; profiles with
		// department "all" pass every one of them
		admin := api.Group("/admin")
		{
			admin.GET("/users", h.Guard(adminReq(domain.DepartmentUsers)), h.AdminListUsers)
			admin.GET("/loans", h.Guard(adminReq(domain.DepartmentLoans)), h.AdminListLoans)
			admin.PATCH("/loans/:id", h.Guard(adminReq(domain.DepartmentLoans)), h.AdminUpdateLoanStatus)
			admin.POST("/invites", h.Guard(adminReq(domain.DepartmentInvites)), h.CreateInvite)
			admin.GET("/invites", h.Guard(adminReq(domain.DepartmentInvites)), h.ListInvites)
			admin.DELETE("/invites/:id", h.Guard(adminReq(domain.DepartmentInvites)), h.RevokeInvite)
		}
	}

	return r
}

func adminReq(dept domain.Department) access.Requirement {
	return access.Requirement{Roles: []domain.Role{domain.RoleAdmin}, Department: dept}
}
