package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Turn 一个完整的问答轮次。追加进历史后不再修改，只会被整条淘汰。
type Turn struct {
	UserQuery      string         `json:"user_query"`
	AIResponse     string         `json:"ai_response"`
	Timestamp      time.Time      `json:"timestamp"`
	SessionID      string         `json:"session_id"`
	Metadata       map[string]any `json:"metadata"`
	RetrievedDocs  []string       `json:"retrieved_docs"`
	ContextSummary string         `json:"context_summary"`
	Keywords       []string       `json:"keywords"`
}

// Store 对话历史的持久化接口。逻辑上只追加，存储层每次全量重写。
type Store interface {
	// Load 返回最近 max 条轮次（不足则全部）。
	Load(max int) ([]Turn, error)
	// Save 全量写入当前历史。
	Save(turns []Turn) error
	// Delete 删除持久化的历史。
	Delete() error
}

// FileStore 单一 JSON 文件的历史存储。
type FileStore struct {
	path string
}

// NewFileStore 创建文件存储并确保目录存在。
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load 读取历史文件，文件不存在时返回空历史。
func (s *FileStore) Load(max int) ([]Turn, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	if max > 0 && len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	return turns, nil
}

// Save 将完整历史写回文件。
func (s *FileStore) Save(turns []Turn) error {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// Delete 删除历史文件，文件不存在不算错误。
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}
