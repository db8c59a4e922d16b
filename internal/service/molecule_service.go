// Package service 包含了应用的业务逻辑层。
package service

import (
	"molviz-go/internal/geometry"
	"molviz-go/internal/model"
	"molviz-go/internal/repository"
)

// MoleculeService 定义了分子操作的接口。
type MoleculeService interface {
	// Create 校验结构后入库；结构非法时返回 MalformedStructureError。
	Create(spec model.MoleculeSpec) (model.Molecule, error)
	Get(id int) (model.Molecule, error)
	GetByName(name string) (model.Molecule, error)
}

type moleculeService struct {
	store repository.Store
}

// NewMoleculeService 创建一个新的 MoleculeService 实例。
func NewMoleculeService(store repository.Store) MoleculeService {
	return &moleculeService{store: store}
}

// Create 先做结构校验再写入存储，保证存储中的每个分子都满足
// 结构不变式。存储操作本身对合法输入不会失败。
func (s *moleculeService) Create(spec model.MoleculeSpec) (model.Molecule, error) {
	if err := geometry.ValidateStructure(spec.Structure); err != nil {
		return model.Molecule{}, err
	}
	return s.store.CreateMolecule(spec), nil
}

func (s *moleculeService) Get(id int) (model.Molecule, error) {
	return s.store.GetMolecule(id)
}

func (s *moleculeService) GetByName(name string) (model.Molecule, error) {
	return s.store.GetMoleculeByName(name)
}
