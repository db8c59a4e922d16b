package service

import (
	"context"
	"errors"
	"sync"

	"molviz-go/internal/model"
	"molviz-go/internal/repository"
	"molviz-go/pkg/errs"
	"molviz-go/pkg/llm"
	"molviz-go/pkg/log"
)

// ChatService 定义了分子问答的接口。
type ChatService interface {
	// Ask 就指定分子提问，成功后保存并返回完整的问答记录。
	Ask(ctx context.Context, moleculeID int, question string) (model.Chat, error)
	// History 按创建顺序返回该分子的全部问答记录。
	History(moleculeID int) []model.Chat
}

type chatService struct {
	store     repository.Store
	llmClient llm.Client

	// inFlight 记录正在等待 LLM 回答的分子。同一分子同时只允许
	// 一个未完成的提问，后到的提问被拒绝而不是排队。
	mu       sync.Mutex
	inFlight map[int]struct{}
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(store repository.Store, llmClient llm.Client) ChatService {
	return &chatService{
		store:     store,
		llmClient: llmClient,
		inFlight:  make(map[int]struct{}),
	}
}

// Ask 解析分子、调用 LLM、保存问答记录。分子不存在时返回
// ErrMissingMolecule；该分子已有未完成的提问时返回 ErrChatInFlight。
func (s *chatService) Ask(ctx context.Context, moleculeID int, question string) (model.Chat, error) {
	mol, err := s.store.GetMolecule(moleculeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Chat{}, errs.ErrMissingMolecule
		}
		return model.Chat{}, err
	}

	if err := s.acquire(moleculeID); err != nil {
		return model.Chat{}, err
	}
	defer s.release(moleculeID)

	answer, err := s.llmClient.Ask(ctx, llm.MoleculeContext{
		Name:      mol.Name,
		Formula:   mol.Formula,
		AtomCount: len(mol.Structure.Atoms),
		BondCount: len(mol.Structure.Bonds),
	}, question)
	if err != nil {
		log.Error("LLM 调用失败", err)
		return model.Chat{}, err
	}

	chat, err := s.store.CreateChat(model.ChatSpec{
		Question:   question,
		Answer:     answer,
		MoleculeID: moleculeID,
	})
	if err != nil {
		return model.Chat{}, err
	}

	log.Infow("问答记录已保存", "chatId", chat.ID, "moleculeId", moleculeID)
	return chat, nil
}

func (s *chatService) History(moleculeID int) []model.Chat {
	return s.store.ChatsForMolecule(moleculeID)
}

func (s *chatService) acquire(moleculeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[moleculeID]; busy {
		return errs.ErrChatInFlight
	}
	s.inFlight[moleculeID] = struct{}{}
	return nil
}

func (s *chatService) release(moleculeID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, moleculeID)
}
