package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molviz-go/internal/model"
	"molviz-go/pkg/errs"
)

func seedStore(t *testing.T) Store {
	t.Helper()
	s := NewMemoryStore()
	for _, spec := range model.PredefinedMolecules {
		s.CreateMolecule(spec)
	}
	return s
}

func TestCreateMoleculeAssignsSequentialIDs(t *testing.T) {
	s := NewMemoryStore()
	a := s.CreateMolecule(model.MoleculeSpec{Name: "water", Formula: "H2O"})
	b := s.CreateMolecule(model.MoleculeSpec{Name: "methane", Formula: "CH4"})

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Greater(t, b.ID, a.ID)
}

func TestGetMolecule(t *testing.T) {
	s := seedStore(t)

	mol, err := s.GetMolecule(1)
	require.NoError(t, err)
	assert.Equal(t, "water", mol.Name)
	assert.Len(t, mol.Structure.Atoms, 3)

	_, err = s.GetMolecule(999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetMoleculeByNameCaseInsensitive(t *testing.T) {
	s := seedStore(t)

	for _, name := range []string{"water", "WATER", "Water", "wAtEr"} {
		mol, err := s.GetMoleculeByName(name)
		require.NoError(t, err, "lookup %q", name)
		assert.Equal(t, 1, mol.ID)
	}

	_, err := s.GetMoleculeByName("benzene")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetMoleculeByNameFirstMatchWins(t *testing.T) {
	s := NewMemoryStore()
	first := s.CreateMolecule(model.MoleculeSpec{Name: "Water", Formula: "H2O"})
	s.CreateMolecule(model.MoleculeSpec{Name: "water", Formula: "H2O"})

	mol, err := s.GetMoleculeByName("WATER")
	require.NoError(t, err)
	assert.Equal(t, first.ID, mol.ID)
}

func TestCreateChat(t *testing.T) {
	s := seedStore(t)

	chat, err := s.CreateChat(model.ChatSpec{Question: "q1", Answer: "a1", MoleculeID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, chat.ID)

	chat2, err := s.CreateChat(model.ChatSpec{Question: "q2", Answer: "a2", MoleculeID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, chat2.ID)
}

func TestCreateChatMissingMolecule(t *testing.T) {
	s := seedStore(t)

	_, err := s.CreateChat(model.ChatSpec{Question: "q", Answer: "a", MoleculeID: 42})
	assert.ErrorIs(t, err, errs.ErrMissingMolecule)

	_, err = s.CreateChat(model.ChatSpec{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, errs.ErrMissingMolecule)

	// 失败的创建不能改动聊天集合
	assert.Empty(t, s.ChatsForMolecule(42))
	assert.Empty(t, s.ChatsForMolecule(1))
}

func TestChatsForMoleculeCreationOrderAndFilter(t *testing.T) {
	s := seedStore(t)

	_, err := s.CreateChat(model.ChatSpec{Question: "about water", Answer: "a", MoleculeID: 1})
	require.NoError(t, err)
	_, err = s.CreateChat(model.ChatSpec{Question: "about methane", Answer: "b", MoleculeID: 2})
	require.NoError(t, err)
	_, err = s.CreateChat(model.ChatSpec{Question: "more water", Answer: "c", MoleculeID: 1})
	require.NoError(t, err)

	chats := s.ChatsForMolecule(1)
	require.Len(t, chats, 2)
	assert.Equal(t, "about water", chats[0].Question)
	assert.Equal(t, "more water", chats[1].Question)

	assert.Len(t, s.ChatsForMolecule(2), 1)
	assert.Empty(t, s.ChatsForMolecule(3))
}
