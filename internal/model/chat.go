package model

// Chat 代表一次针对某个分子的问答交互，通过 MoleculeID 弱引用分子。
type Chat struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	MoleculeID int    `json:"moleculeId"`
}

// ChatSpec 是创建聊天记录时的输入，id 由存储分配。
type ChatSpec struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	MoleculeID int    `json:"moleculeId"`
}
