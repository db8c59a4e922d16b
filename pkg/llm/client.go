// Package llm provides a client for interacting with Large Language Models.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"molviz-go/internal/config"
	"molviz-go/pkg/errs"
)

const (
	defaultModel          = openai.GPT4o
	defaultTimeoutSeconds = 30

	// fallbackAnswer 是上游返回的内容无法按 {"answer": ...} 解析时的
	// 兜底答案。这是刻意保留的行为：解析失败降级而不是报 500。
	fallbackAnswer = "No answer provided"
)

// MoleculeContext 是构建系统提示所需的分子信息。
type MoleculeContext struct {
	Name      string
	Formula   string
	AtomCount int
	BondCount int
}

// Client 定义了化学问答 LLM 客户端的接口。
type Client interface {
	// Ask 就指定分子向模型提问并返回纯文本答案。
	Ask(ctx context.Context, mol MoleculeContext, question string) (string, error)
}

type openaiClient struct {
	cfg    config.LLMConfig
	client *openai.Client
}

// NewClient 根据配置创建 LLM 客户端。base_url 可指向任意兼容
// OpenAI 协议的服务。
func NewClient(cfg config.LLMConfig) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openaiClient{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// answerPayload 对应模型被要求返回的 JSON 对象。
type answerPayload struct {
	Answer string `json:"answer"`
}

// Ask 以 JSON 响应模式调用聊天接口。每次调用带一个独立的超时，
// 源系统没有规定超时语义，这里显式补上（默认 30 秒）。
func (c *openaiClient) Ask(ctx context.Context, mol MoleculeContext, question string) (string, error) {
	timeout := time.Duration(c.cfg.TimeoutSeconds) * time.Second
	if c.cfg.TimeoutSeconds <= 0 {
		timeout = defaultTimeoutSeconds * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := c.cfg.Model
	if model == "" {
		model = defaultModel
	}

	systemPrompt := fmt.Sprintf(
		"You are a chemistry expert. You are discussing the molecule %s (%s). "+
			"Its molecular structure consists of %d atoms and %d bonds. "+
			"Answer questions about this molecule and provide answers in JSON format with an 'answer' field.",
		mol.Name, mol.Formula, mol.AtomCount, mol.BondCount,
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices in response", errs.ErrUpstream)
	}

	var payload answerPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return fallbackAnswer, nil
	}
	if payload.Answer == "" {
		return fallbackAnswer, nil
	}
	return payload.Answer, nil
}
