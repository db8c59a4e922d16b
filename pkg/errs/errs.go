// Package errs 定义了应用各层共享的错误条件。
package errs

import (
	"errors"
	"fmt"
)

// 哨兵错误，供 handler 层用 errors.Is 判定 HTTP 状态码。
var (
	// ErrNotFound 表示按 id 或名称查找的记录不存在。
	ErrNotFound = errors.New("record not found")

	// ErrMissingMolecule 表示聊天记录引用的分子不存在。
	ErrMissingMolecule = errors.New("molecule does not exist")

	// ErrChatInFlight 表示同一分子已有一个未完成的提问。
	ErrChatInFlight = errors.New("a question for this molecule is already being answered")

	// ErrUpstream 表示外部 LLM 调用失败。
	ErrUpstream = errors.New("upstream llm call failed")
)

// MalformedStructureError 表示分子结构描述非法，例如化学键引用了
// 不存在的原子。Reason 聚合了全部校验失败项。
type MalformedStructureError struct {
	Reason error
}

func (e *MalformedStructureError) Error() string {
	return fmt.Sprintf("malformed structure: %v", e.Reason)
}

func (e *MalformedStructureError) Unwrap() error {
	return e.Reason
}

// IsMalformedStructure 判断 err 是否为结构校验错误。
func IsMalformedStructure(err error) bool {
	var target *MalformedStructureError
	return errors.As(err, &target)
}
