// Package repository 提供了数据访问层的实现。
package repository

import (
	"strings"
	"sync"

	"molviz-go/internal/model"
	"molviz-go/pkg/errs"
)

// Store 定义了分子与聊天记录的存储接口。实现必须保证 id 从 1 开始
// 严格递增，且两种记录都只增不删。
type Store interface {
	CreateMolecule(spec model.MoleculeSpec) model.Molecule
	GetMolecule(id int) (model.Molecule, error)
	GetMoleculeByName(name string) (model.Molecule, error)
	CreateChat(spec model.ChatSpec) (model.Chat, error)
	ChatsForMolecule(moleculeID int) []model.Chat
}

// memoryStore 是进程内的权威存储：普通 map 加读写锁。状态在进程
// 重启后丢失，这是刻意的设计（无持久化后端）。
type memoryStore struct {
	mu             sync.RWMutex
	molecules      map[int]model.Molecule
	moleculeOrder  []int
	chats          map[int]model.Chat
	chatOrder      []int
	nextMoleculeID int
	nextChatID     int
}

// NewMemoryStore 创建一个空的内存存储。存储实例由 main 显式构建并
// 注入到各个服务，不存在包级全局状态。
func NewMemoryStore() Store {
	return &memoryStore{
		molecules:      make(map[int]model.Molecule),
		chats:          make(map[int]model.Chat),
		nextMoleculeID: 1,
		nextChatID:     1,
	}
}

// CreateMolecule 分配下一个顺序 id 并保存记录，对合法输入永不失败。
func (s *memoryStore) CreateMolecule(spec model.MoleculeSpec) model.Molecule {
	s.mu.Lock()
	defer s.mu.Unlock()

	mol := model.Molecule{
		ID:        s.nextMoleculeID,
		Name:      spec.Name,
		Formula:   spec.Formula,
		Structure: spec.Structure,
	}
	s.nextMoleculeID++
	s.molecules[mol.ID] = mol
	s.moleculeOrder = append(s.moleculeOrder, mol.ID)
	return mol
}

// GetMolecule 按 id 返回分子，不存在时返回 ErrNotFound。
func (s *memoryStore) GetMolecule(id int) (model.Molecule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mol, ok := s.molecules[id]
	if !ok {
		return model.Molecule{}, errs.ErrNotFound
	}
	return mol, nil
}

// GetMoleculeByName 对名称做大小写不敏感的精确匹配，按创建顺序
// 返回第一个命中的分子。
func (s *memoryStore) GetMoleculeByName(name string) (model.Molecule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.moleculeOrder {
		mol := s.molecules[id]
		if strings.EqualFold(mol.Name, name) {
			return mol, nil
		}
	}
	return model.Molecule{}, errs.ErrNotFound
}

// CreateChat 在分子存在时分配顺序 id 并保存；分子缺失时返回
// ErrMissingMolecule 且不改动聊天集合。
func (s *memoryStore) CreateChat(spec model.ChatSpec) (model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.MoleculeID == 0 {
		return model.Chat{}, errs.ErrMissingMolecule
	}
	if _, ok := s.molecules[spec.MoleculeID]; !ok {
		return model.Chat{}, errs.ErrMissingMolecule
	}

	chat := model.Chat{
		ID:         s.nextChatID,
		Question:   spec.Question,
		Answer:     spec.Answer,
		MoleculeID: spec.MoleculeID,
	}
	s.nextChatID++
	s.chats[chat.ID] = chat
	s.chatOrder = append(s.chatOrder, chat.ID)
	return chat, nil
}

// ChatsForMolecule 按创建顺序返回该分子的全部聊天记录，可能为空。
func (s *memoryStore) ChatsForMolecule(moleculeID int) []model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := make([]model.Chat, 0)
	for _, id := range s.chatOrder {
		if chat := s.chats[id]; chat.MoleculeID == moleculeID {
			chats = append(chats, chat)
		}
	}
	return chats
}
