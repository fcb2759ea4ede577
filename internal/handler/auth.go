package handler

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/cinebox/internal/middleware"
	"github.com/user/cinebox/internal/model"
	"github.com/user/cinebox/internal/service"
	"github.com/user/cinebox/internal/utils"
)

// loginRequest 登录请求体
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// registerRequest 注册请求体
type registerRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.Account.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Unauthorized(c, "登录失败: "+err.Error())
		return
	}

	h.establishSession(c, user)
	utils.Success(c, user)
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.Account.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailRegistered) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalServerError(c, "注册失败: "+err.Error())
		return
	}

	h.establishSession(c, user)
	utils.Success(c, user)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	h.Account.Logout()

	// 清除 Cookie 与 Session
	c.SetCookie("token", "", -1, "/", "", false, true)
	sess := sessions.Default(c)
	sess.Clear()
	sess.Save()

	utils.SuccessWithMessage(c, "已登出", nil)
}

// establishSession 登录成功后的统一收尾：签发 JWT Cookie 并写入 Session
func (h *Handler) establishSession(c *gin.Context, user *model.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)
	c.Header("X-Auth-Token", token)

	sess := sessions.Default(c)
	sess.Set("userinfo", model.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
	sess.Save()
}
