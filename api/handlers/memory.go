package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lingorag/lingorag/memory"
)

// MemoryHandler 对话记忆管理处理器
type MemoryHandler struct {
	memory *memory.Manager
	logger *zap.Logger
}

// NewMemoryHandler 创建记忆处理器
func NewMemoryHandler(m *memory.Manager, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{memory: m, logger: logger}
}

// HandleStats 处理 GET /api/v1/memory/stats
func (h *MemoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSON(w, http.StatusMethodNotAllowed, Response{Success: false})
		return
	}
	WriteSuccess(w, h.memory.Stats())
}

// HandleExport 处理 GET /api/v1/memory/export?format=json|text
func (h *MemoryHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSON(w, http.StatusMethodNotAllowed, Response{Success: false})
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = memory.FormatJSON
	}

	out, err := h.memory.Export(format)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	if format == memory.FormatJSON {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// HandleClear 处理 DELETE /api/v1/memory
func (h *MemoryHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteJSON(w, http.StatusMethodNotAllowed, Response{Success: false})
		return
	}

	h.memory.ClearHistory()
	h.logger.Info("conversation history cleared",
		zap.String("new_session", h.memory.SessionID()))
	WriteSuccess(w, map[string]string{"session_id": h.memory.SessionID()})
}
