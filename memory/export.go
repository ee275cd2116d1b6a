package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lingorag/lingorag/types"
)

// 导出格式。
const (
	FormatJSON = "json"
	FormatText = "text"
)

// exportedTurn JSON 导出的精简结构。
type exportedTurn struct {
	Timestamp string   `json:"timestamp"`
	User      string   `json:"user"`
	Assistant string   `json:"assistant"`
	Session   string   `json:"session"`
	Keywords  []string `json:"keywords"`
}

// Export 序列化全部历史。json 保留结构化字段，text 生成带分隔横幅的
// 可读转写。未知格式返回 UNSUPPORTED_FORMAT，不做默认回退。
func (m *Manager) Export(format string) (string, error) {
	m.mu.Lock()
	turns := make([]Turn, len(m.history))
	copy(turns, m.history)
	m.mu.Unlock()

	switch format {
	case FormatJSON:
		return exportJSON(turns)
	case FormatText, "txt":
		return exportText(turns), nil
	default:
		return "", types.NewError(types.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported export format: %q", format))
	}
}

func exportJSON(turns []Turn) (string, error) {
	exported := make([]exportedTurn, len(turns))
	for i, turn := range turns {
		exported[i] = exportedTurn{
			Timestamp: turn.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			User:      turn.UserQuery,
			Assistant: turn.AIResponse,
			Session:   turn.SessionID,
			Keywords:  turn.Keywords,
		}
	}
	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	return string(data), nil
}

func exportText(turns []Turn) string {
	banner := strings.Repeat("=", 60)
	lines := []string{banner, "对话历史导出", banner}

	for i, turn := range turns {
		lines = append(lines,
			fmt.Sprintf("\n[%d] %s", i+1, turn.Timestamp.Format("2006-01-02 15:04:05")),
			"用户: "+turn.UserQuery,
			"助手: "+turn.AIResponse,
		)
		if len(turn.Keywords) > 0 {
			lines = append(lines, "关键词: "+strings.Join(turn.Keywords, ", "))
		}
		lines = append(lines, strings.Repeat("-", 40))
	}
	return strings.Join(lines, "\n")
}
