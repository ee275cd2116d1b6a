package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lingorag/lingorag/internal/metrics"
	"github.com/lingorag/lingorag/types"
)

// Config 对话记忆配置。
type Config struct {
	// MaxHistory 保留的最大轮次数，超出时先进先出淘汰。
	MaxHistory int `yaml:"max_history" json:"max_history"`
	// MaxContextLength 拼装上下文的默认长度上限（字符）。
	MaxContextLength int `yaml:"max_context_length" json:"max_context_length"`
	// HistoryFile 历史持久化文件路径。
	HistoryFile string `yaml:"history_file" json:"history_file"`
}

// DefaultConfig 返回默认记忆配置。
func DefaultConfig() Config {
	return Config{
		MaxHistory:       10,
		MaxContextLength: 2000,
		HistoryFile:      "conversation_history.json",
	}
}

// contextWindow 拼装上下文时只考虑最近的轮次数。
const contextWindow = 5

// Manager 对话记忆管理器，独占持有历史及其持久化镜像。
// 同进程内的并发请求通过单把互斥锁串行化读写。
type Manager struct {
	config  Config
	store   Store
	metrics *metrics.Collector
	logger  *zap.Logger

	mu        sync.Mutex
	history   []Turn
	sessionID string

	// now 可替换的时钟，用于测试。
	now func() time.Time
}

// NewManager 创建记忆管理器并从存储加载最近的历史。加载失败只记日志
// 并以空历史继续，不影响请求路径。store 可为 nil（纯内存模式）。
func NewManager(config Config, store Store, collector *metrics.Collector, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxHistory <= 0 {
		config.MaxHistory = DefaultConfig().MaxHistory
	}
	if config.MaxContextLength <= 0 {
		config.MaxContextLength = DefaultConfig().MaxContextLength
	}

	m := &Manager{
		config:    config,
		store:     store,
		metrics:   collector,
		logger:    logger,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}

	if store != nil {
		turns, err := store.Load(config.MaxHistory)
		if err != nil {
			loadErr := types.NewError(types.ErrPersistenceFailure, "load conversation history").WithCause(err)
			m.logger.Warn("continuing with empty history", zap.Error(loadErr))
		} else {
			m.history = turns
		}
	}
	return m
}

// SessionID 返回本次进程生命周期的会话标识。
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Len 返回当前历史轮次数。
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// AddTurn 追加一个完成的问答轮次：抽取关键词和主题摘要，截断到
// MaxHistory，并同步持久化。持久化失败降级为仅内存保留。
func (m *Manager) AddTurn(userQuery, aiResponse string, metadata map[string]any, retrievedDocs []string) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	turn := Turn{
		UserQuery:      userQuery,
		AIResponse:     aiResponse,
		Timestamp:      m.now(),
		SessionID:      m.sessionID,
		Metadata:       metadata,
		RetrievedDocs:  retrievedDocs,
		ContextSummary: Summarize(userQuery),
		Keywords:       ExtractKeywords(userQuery + " " + aiResponse),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, turn)
	if len(m.history) > m.config.MaxHistory {
		m.history = m.history[len(m.history)-m.config.MaxHistory:]
	}
	m.metrics.MemoryTurn()

	if m.store != nil {
		if err := m.store.Save(m.history); err != nil {
			saveErr := types.NewError(types.ErrPersistenceFailure, "save conversation history").WithCause(err)
			m.logger.Warn("history kept in memory only", zap.Error(saveErr))
		}
	}
}

// ContextForQuery 为当前查询拼装历史上下文：最近 5 轮按
// 2*关键词重叠 + 新近度 打分降序，贪心拼接直到超出长度上限。超限的轮
// 次整条跳过，不做截断。历史为空或没有轮次放得下时返回空串。
func (m *Manager) ContextForQuery(query string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = m.config.MaxContextLength
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) == 0 {
		return ""
	}

	currentKeywords := make(map[string]bool)
	for _, kw := range ExtractKeywords(query) {
		currentKeywords[kw] = true
	}

	start := len(m.history) - contextWindow
	if start < 0 {
		start = 0
	}
	recent := m.history[start:]

	type scoredTurn struct {
		score int
		turn  Turn
	}
	scored := make([]scoredTurn, 0, len(recent))
	for i, turn := range recent {
		overlap := 0
		for _, kw := range turn.Keywords {
			if currentKeywords[kw] {
				overlap++
			}
		}
		// 新近度：距离历史末尾越近分越高。
		recency := len(m.history) - (start + i)
		scored = append(scored, scoredTurn{score: overlap*2 + recency, turn: turn})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	var parts []string
	currentLength := 0
	for _, st := range scored {
		snippet := formatTurn(st.turn)
		if currentLength+len([]rune(snippet)) > maxLength {
			break
		}
		parts = append(parts, snippet)
		currentLength += len([]rune(snippet))
	}
	if len(parts) == 0 {
		return ""
	}

	header := contextHeader(len(parts))
	return header + strings.Join(parts, "\n\n")
}

// ClearHistory 清空历史、生成新的会话标识并删除持久化文件。
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
	m.sessionID = uuid.NewString()

	if m.store != nil {
		if err := m.store.Delete(); err != nil {
			delErr := types.NewError(types.ErrPersistenceFailure, "delete conversation history").WithCause(err)
			m.logger.Warn("failed to delete persisted history", zap.Error(delErr))
		}
	}
}

// TopicCount 话题及其出现次数。
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// SessionStats 对话统计信息，按需派生，不持久化。
type SessionStats struct {
	TotalTurns          int          `json:"total_conversations"`
	CurrentSessionTurns int          `json:"current_session_length"`
	MostDiscussedTopics []TopicCount `json:"most_discussed_topics"`
	AvgResponseLength   float64      `json:"avg_response_length"`
}

// Stats 统计总轮次、当前会话轮次、Top-5 关键词频率（并列按首次出现顺
// 序）以及平均回答长度。
func (m *Manager) Stats() SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := SessionStats{TotalTurns: len(m.history)}
	if len(m.history) == 0 {
		stats.MostDiscussedTopics = []TopicCount{}
		return stats
	}

	counts := make(map[string]int)
	var order []string
	totalResponseLen := 0
	for _, turn := range m.history {
		if turn.SessionID == m.sessionID {
			stats.CurrentSessionTurns++
		}
		totalResponseLen += len([]rune(turn.AIResponse))
		for _, kw := range turn.Keywords {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	top := order
	if len(top) > 5 {
		top = top[:5]
	}
	stats.MostDiscussedTopics = make([]TopicCount, len(top))
	for i, kw := range top {
		stats.MostDiscussedTopics[i] = TopicCount{Topic: kw, Count: counts[kw]}
	}

	stats.AvgResponseLength = float64(totalResponseLen) / float64(len(m.history))
	return stats
}

// formatTurn 格式化单个轮次为上下文片段。
func formatTurn(turn Turn) string {
	return fmt.Sprintf("**[%s] 用户:** %s\n**助手:** %s",
		turn.Timestamp.Format("15:04"), turn.UserQuery, turn.AIResponse)
}

func contextHeader(n int) string {
	return fmt.Sprintf("📝 **对话历史 (最近%d轮):**\n\n", n)
}
