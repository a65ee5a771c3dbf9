package server

import (
	"net/http"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/config"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/handlers"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/middleware"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("compliance_session", store))

	// AUTH
	r.POST("/auth/login", handlers.Login)
	r.POST("/auth/logout", handlers.Logout)

	// COMPLIANCE
	comp := r.Group("/compliance")
	comp.GET("/stats", handlers.GetStats)
	comp.GET("/:code/requirements", handlers.GetRequirements)
	comp.GET("/:code/requirements/:req_id/mappings", handlers.GetRequirementMappings)

	// ADMIN
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth())
	admin.POST("/seed",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ReloadSeed,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
