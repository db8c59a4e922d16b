package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"molviz-go/internal/service"
	"molviz-go/pkg/errs"
	"molviz-go/pkg/log"
)

// ChatHandler 负责处理分子问答相关的 API 请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// AskRequest 定义了提问 API 的请求体结构。
type AskRequest struct {
	Question   string `json:"question" binding:"required"`
	MoleculeID int    `json:"moleculeId" binding:"required"`
}

// Ask 处理 POST /api/chat。分子缺失或上游 LLM 失败都按约定返回 500；
// 同一分子存在未完成提问时返回 409。
func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Ask: invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatService.Ask(c.Request.Context(), req.MoleculeID, req.Question)
	if err != nil {
		if errors.Is(err, errs.ErrChatInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Error("Ask failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chat)
}

// History 处理 GET /api/chat/:moleculeId，按创建顺序返回问答记录。
func (h *ChatHandler) History(c *gin.Context) {
	moleculeID, err := strconv.Atoi(c.Param("moleculeId"))
	if err != nil {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}
	c.JSON(http.StatusOK, h.chatService.History(moleculeID))
}
