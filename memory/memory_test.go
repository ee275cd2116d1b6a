// 对话记忆管理器测试。
package memory

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore 所有操作都失败的 Store。
type failingStore struct{}

func (failingStore) Load(int) ([]Turn, error) { return nil, errors.New("disk gone") }
func (failingStore) Save([]Turn) error        { return errors.New("disk gone") }
func (failingStore) Delete() error            { return errors.New("disk gone") }

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	return NewManager(DefaultConfig(), store, nil, nil)
}

func TestManager_AddTurnEnrichesTurn(t *testing.T) {
	m := newTestManager(t)

	m.AddTurn("现在完成时怎么用", "现在完成时表示……", map[string]any{"num_docs": 3}, []string{"doc-1"})

	require.Equal(t, 1, m.Len())
	stats := m.Stats()
	assert.Equal(t, 1, stats.TotalTurns)
	assert.Equal(t, 1, stats.CurrentSessionTurns)
	require.NotEmpty(t, stats.MostDiscussedTopics)
	assert.Equal(t, "现在完成时", stats.MostDiscussedTopics[0].Topic)
}

func TestManager_FIFOTrimAtMaxHistory(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 11; i++ {
		m.AddTurn(fmt.Sprintf("问题 %d", i), fmt.Sprintf("回答 %d", i), nil, nil)
	}

	assert.Equal(t, 10, m.Len())
	// 最旧的一轮被淘汰
	out, err := m.Export(FormatText)
	require.NoError(t, err)
	assert.NotContains(t, out, "问题 0")
	assert.Contains(t, out, "问题 10")
}

func TestManager_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	m := NewManager(DefaultConfig(), store, nil, nil)
	m.AddTurn("时态问题", "时态回答", nil, nil)

	// 新进程：同一文件重新加载
	restarted := NewManager(DefaultConfig(), store, nil, nil)
	assert.Equal(t, 1, restarted.Len())

	// 旧轮次属于上一个会话
	stats := restarted.Stats()
	assert.Equal(t, 1, stats.TotalTurns)
	assert.Equal(t, 0, stats.CurrentSessionTurns)
}

func TestManager_PersistenceFailureDegrades(t *testing.T) {
	m := NewManager(DefaultConfig(), failingStore{}, nil, nil)

	// 保存失败不影响内存中的历史
	m.AddTurn("问题", "回答", nil, nil)
	assert.Equal(t, 1, m.Len())

	m.ClearHistory()
	assert.Equal(t, 0, m.Len())
}

func TestManager_ContextForQueryPrefersKeywordOverlap(t *testing.T) {
	m := newTestManager(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.AddTurn("现在完成时怎么用", "完成时解释", nil, nil)
	m.AddTurn("冠词的区别", "冠词解释", nil, nil)
	m.AddTurn("today weather", "闲聊", nil, nil)

	ctx := m.ContextForQuery("再讲讲现在完成时", 0)
	require.NotEmpty(t, ctx)

	assert.Contains(t, ctx, "📝 **对话历史 (最近3轮):**")
	// 关键词重叠的轮次应排在相关性更低的轮次之前
	pos := strings.Index(ctx, "现在完成时怎么用")
	posWeather := strings.Index(ctx, "today weather")
	require.GreaterOrEqual(t, pos, 0)
	require.GreaterOrEqual(t, posWeather, 0)
	assert.Less(t, pos, posWeather)

	assert.Contains(t, ctx, "**[10:00] 用户:** 现在完成时怎么用")
	assert.Contains(t, ctx, "**助手:** 完成时解释")
}

func TestManager_ContextForQueryLengthBudget(t *testing.T) {
	m := newTestManager(t)

	m.AddTurn("长问题", strings.Repeat("长", 500), nil, nil)
	m.AddTurn("冠词问题", "冠词回答", nil, nil)

	// 预算只够放排名靠前的短轮次，下一轮超限即停止拼装
	ctx := m.ContextForQuery("冠词", 100)
	assert.Contains(t, ctx, "最近1轮")
	assert.NotContains(t, ctx, strings.Repeat("长", 500))

	// 预算放不下任何一轮时返回空串
	assert.Empty(t, m.ContextForQuery("q", 5))
}

func TestManager_ContextForQueryEmptyHistory(t *testing.T) {
	m := newTestManager(t)
	assert.Empty(t, m.ContextForQuery("任何问题", 0))
}

func TestManager_ContextWindowOnlyRecentFive(t *testing.T) {
	m := newTestManager(t)

	m.AddTurn("第一轮冠词问题", "冠词回答", nil, nil)
	for i := 0; i < 5; i++ {
		m.AddTurn(fmt.Sprintf("无关闲聊 %d", i), "闲聊回答", nil, nil)
	}

	// 第一轮已滑出 5 轮窗口，即使关键词重叠也不会入选
	ctx := m.ContextForQuery("冠词", 0)
	assert.NotContains(t, ctx, "第一轮冠词问题")
}

func TestManager_ClearHistoryRotatesSession(t *testing.T) {
	m := newTestManager(t)
	m.AddTurn("问题", "回答", nil, nil)

	before := m.SessionID()
	m.ClearHistory()

	assert.Equal(t, 0, m.Len())
	assert.NotEqual(t, before, m.SessionID())
}

func TestManager_StatsTopTopics(t *testing.T) {
	m := newTestManager(t)

	m.AddTurn("时态问题一", "答", nil, nil)
	m.AddTurn("时态问题二", "答", nil, nil)
	m.AddTurn("冠词问题", "答", nil, nil)

	stats := m.Stats()
	require.NotEmpty(t, stats.MostDiscussedTopics)
	assert.Equal(t, TopicCount{Topic: "时态", Count: 2}, stats.MostDiscussedTopics[0])
	assert.LessOrEqual(t, len(stats.MostDiscussedTopics), 5)
}

func TestManager_StatsAvgResponseLengthRuneCounted(t *testing.T) {
	m := newTestManager(t)
	m.AddTurn("q1", "四个字啊", nil, nil)
	m.AddTurn("q2", "六个字的回答", nil, nil)

	stats := m.Stats()
	assert.Equal(t, 5.0, stats.AvgResponseLength)
}

func TestManager_StatsEmpty(t *testing.T) {
	m := newTestManager(t)
	stats := m.Stats()
	assert.Equal(t, 0, stats.TotalTurns)
	assert.NotNil(t, stats.MostDiscussedTopics)
}
