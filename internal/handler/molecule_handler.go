// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"molviz-go/internal/model"
	"molviz-go/internal/service"
	"molviz-go/pkg/errs"
	"molviz-go/pkg/log"
)

// MoleculeHandler 负责处理所有与分子相关的 API 请求。
type MoleculeHandler struct {
	moleculeService service.MoleculeService
}

// NewMoleculeHandler 创建一个新的 MoleculeHandler 实例。
func NewMoleculeHandler(moleculeService service.MoleculeService) *MoleculeHandler {
	return &MoleculeHandler{moleculeService: moleculeService}
}

// CreateMoleculeRequest 定义了创建分子 API 的请求体结构。
type CreateMoleculeRequest struct {
	Name      string          `json:"name" binding:"required"`
	Formula   string          `json:"formula" binding:"required"`
	Structure model.Structure `json:"structure" binding:"required"`
}

// Create 处理 POST /api/molecules。请求体或结构非法时返回 400，
// 存储在校验通过前不会被改动。
func (h *MoleculeHandler) Create(c *gin.Context) {
	var req CreateMoleculeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateMolecule: invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mol, err := h.moleculeService.Create(model.MoleculeSpec{
		Name:      req.Name,
		Formula:   req.Formula,
		Structure: req.Structure,
	})
	if err != nil {
		log.Warnf("CreateMolecule: rejected '%s', error: %v", req.Name, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Infof("Molecule '%s' created with id %d", mol.Name, mol.ID)
	c.JSON(http.StatusOK, mol)
}

// Get 处理 GET /api/molecules/:id。
func (h *MoleculeHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Molecule not found"})
		return
	}

	mol, err := h.moleculeService.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Molecule not found"})
		return
	}
	c.JSON(http.StatusOK, mol)
}

// GetByName 处理 GET /api/molecules/name/:name，名称匹配不区分大小写。
func (h *MoleculeHandler) GetByName(c *gin.Context) {
	mol, err := h.moleculeService.GetByName(c.Param("name"))
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			log.Error("GetMoleculeByName failed", err)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Molecule not found"})
		return
	}
	c.JSON(http.StatusOK, mol)
}
