package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/cinebox/internal/handler"
	"github.com/user/cinebox/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	registerValidations()

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证 ====================
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 电影目录 ====================
	movies := r.Group("/api/movies")
	movies.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		movies.GET("", h.Movies)
		movies.POST("/refresh", h.RefreshMovies)
		movies.POST("/search", h.SearchMovies)
		movies.GET("/genre/:id", h.MoviesByGenre)
		movies.POST("/:id/click", h.RecordClick)
	}

	// ==================== 用户数据（需要登录）====================
	user := r.Group("/api")
	user.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		user.GET("/history", h.History)
		user.DELETE("/history", h.ClearHistory)
		user.GET("/avatars", h.Avatars)
		user.PUT("/user/avatar", h.UpdateAvatar)
	}
}

// registerValidations 在 gin 的校验引擎上注册自定义规则
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// notblank: 去掉首尾空白后不能为空
		v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}
