package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"molviz-go/internal/config"
	"molviz-go/internal/repository"
	"molviz-go/internal/scene"
	"molviz-go/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ViewerHandler 负责处理 3D 查看器的 WebSocket 连接。
type ViewerHandler struct {
	store repository.Store
	cfg   config.ViewerConfig
}

// NewViewerHandler 创建一个新的 ViewerHandler 实例。
func NewViewerHandler(store repository.Store, cfg config.ViewerConfig) *ViewerHandler {
	return &ViewerHandler{store: store, cfg: cfg}
}

// Handle 处理 GET /api/viewer/:moleculeId：升级到 WebSocket 后创建
// 一个查看器会话并驱动它直到连接关闭。连接与会话的渲染循环在
// 返回前确定性释放。
func (h *ViewerHandler) Handle(c *gin.Context) {
	moleculeID, err := strconv.Atoi(c.Param("moleculeId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Molecule not found"})
		return
	}

	mol, err := h.store.GetMolecule(moleculeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Molecule not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	session, err := scene.NewSession(h.store, conn, mol, h.cfg)
	if err != nil {
		log.Error("查看器会话创建失败", err)
		return
	}

	log.Infof("查看器会话 %s 已建立，分子: %s", session.ID(), mol.Name)
	session.Run(c.Request.Context(), conn)
}
