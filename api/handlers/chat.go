package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lingorag/lingorag/assistant"
	"github.com/lingorag/lingorag/retrieval"
	"github.com/lingorag/lingorag/types"
)

// ChatHandler 问答请求处理器
type ChatHandler struct {
	assistant *assistant.Assistant
	logger    *zap.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(a *assistant.Assistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{assistant: a, logger: logger}
}

// ChatRequest 问答请求体
type ChatRequest struct {
	// Query 用户问题
	Query string `json:"query"`
	// Mode 检索模式: hybrid, local_only, web_only
	Mode string `json:"mode,omitempty"`
	// Strategy 本地检索策略: similarity, diversity, hybrid, enhanced
	Strategy string `json:"strategy,omitempty"`
	// UseMemory 是否使用对话记忆（默认使用）
	UseMemory *bool `json:"use_memory,omitempty"`
}

// HandleChat 处理 POST /api/v1/chat
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSON(w, http.StatusMethodNotAllowed, Response{Success: false})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, types.NewError(types.ErrEmptyQuery, "invalid request body").WithCause(err), h.logger)
		return
	}

	opts := assistant.DefaultOptions()
	if req.Mode != "" {
		opts.Mode = assistant.ParseSearchMode(req.Mode)
	}
	if req.Strategy != "" {
		strategy, err := retrieval.ParseStrategy(req.Strategy)
		if err != nil {
			WriteError(w, types.NewError(types.ErrUnsupportedFormat, err.Error()), h.logger)
			return
		}
		opts.Strategy = strategy
	}
	if req.UseMemory != nil {
		opts.UseMemory = *req.UseMemory
	}

	reply, err := h.assistant.Chat(r.Context(), req.Query, opts)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	WriteSuccess(w, reply)
}
