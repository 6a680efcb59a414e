package api

import (
	"github.com/gin-gonic/gin"

	"jobboard/internal/api/middleware"
	"jobboard/internal/auth"
	"jobboard/internal/board"
)

// Dependencies 汇总路由所需的服务与基础设施。
type Dependencies struct {
	Services    *board.Services
	AuthService *auth.AuthService
	Revocations auth.RevocationStore
	Limiter     *auth.LoginLimiter
	Uploads     ResumeUploader
	Links       ResumeLinker
	Scanner     VirusScanner
	MaxUpload   int64
	Queue       TaskEnqueuer
}

// RegisterRoutes 在 /api 前缀下注册业务路由。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	svc := deps.Services
	authHandler := NewAuthHandler(svc.Accounts, deps.AuthService, deps.Revocations, deps.Limiter)
	jobHandler := NewJobHandler(svc.Jobs)
	applicationHandler := NewApplicationHandler(svc.Applications, deps.Links)
	favoriteHandler := NewFavoriteHandler(svc.Favorites)
	adminHandler := NewAdminHandler(svc.Admin, svc.Jobs, svc.Applications, deps.Queue)
	resumeHandler := NewResumeHandler(deps.Uploads, deps.Scanner, deps.MaxUpload)

	authenticate := middleware.Authenticate(deps.AuthService, deps.Revocations, svc.Accounts)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()

	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/jobs", jobHandler.Index)
		api.GET("/jobs/:id", jobHandler.Show)

		// 未完成改密的账号只能访问这三个接口
		account := api.Group("", authenticate)
		{
			account.POST("/logout", authHandler.Logout)
			account.GET("/user", authHandler.Me)
			account.PUT("/user/password", authHandler.ChangePassword)
		}

		authed := api.Group("", authenticate, passwordGate)
		{
			authed.GET("/favorites", favoriteHandler.Index)
			authed.POST("/jobs/:id/favorite", favoriteHandler.Toggle)
			authed.GET("/jobs/:id/favorite/check", favoriteHandler.Check)
		}

		employer := api.Group("", authenticate, passwordGate, middleware.RequireRole(auth.RoleEmployer))
		{
			employer.POST("/jobs", jobHandler.Store)
			employer.PUT("/jobs/:id", jobHandler.Update)
			employer.DELETE("/jobs/:id", jobHandler.Destroy)
			employer.GET("/employer/jobs", jobHandler.Mine)
			employer.GET("/employer/applications", applicationHandler.EmployerIndex)
			employer.PUT("/applications/:id/status", applicationHandler.UpdateStatus)
			employer.GET("/applications/:id/resume", applicationHandler.EmployerResume)
		}

		candidate := api.Group("", authenticate, passwordGate, middleware.RequireRole(auth.RoleCandidate))
		{
			candidate.POST("/jobs/:id/apply", applicationHandler.Apply)
			candidate.GET("/candidate/applications", applicationHandler.CandidateIndex)
			candidate.GET("/candidate/applications/:id", applicationHandler.CandidateShow)
			candidate.GET("/candidate/applications/:id/resume", applicationHandler.CandidateResume)
			candidate.POST("/candidate/resumes", resumeHandler.Upload)
		}

		admin := api.Group("/admin", authenticate, passwordGate, middleware.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/users", adminHandler.Users)
			admin.PUT("/users/:id/role", adminHandler.UpdateRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/jobs", adminHandler.Jobs)
			admin.DELETE("/jobs/:id", adminHandler.DeleteJob)
			admin.GET("/applications", adminHandler.Applications)
			admin.GET("/statistics", adminHandler.Statistics)
		}
	}
}
