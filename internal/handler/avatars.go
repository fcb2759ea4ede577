package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinebox/internal/middleware"
	"github.com/user/cinebox/internal/utils"
)

// Avatars 并发抓取所有头像分类，全部完成后一次性返回。
// 个别分类失败不影响其余分类，错误文案随成功结果一起返回。
func (h *Handler) Avatars(c *gin.Context) {
	result := h.Avatar.FetchAvatars(c.Request.Context())
	utils.Success(c, result)
}

// updateAvatarRequest 更新头像请求体（两个字段都为 null 表示清除头像）
type updateAvatarRequest struct {
	PexelsID *int    `json:"pexels_id"`
	URL      *string `json:"url"`
}

// UpdateAvatar 更新当前用户的头像引用
func (h *Handler) UpdateAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req updateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.Account.UpdateAvatar(userID, req.PexelsID, req.URL); err != nil {
		utils.InternalServerError(c, "保存头像失败: "+err.Error())
		return
	}
	utils.Success(c, nil)
}
