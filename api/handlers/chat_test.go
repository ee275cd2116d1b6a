// 问答处理器测试。
package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lingorag/lingorag/assistant"
	"github.com/lingorag/lingorag/memory"
	"github.com/lingorag/lingorag/retrieval"
	"github.com/lingorag/lingorag/types"
)

type fakeStore struct {
	results []types.ScoredPassage
	err     error
}

func (s *fakeStore) Query(_ context.Context, _ string, k, _ int) ([]types.ScoredPassage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > k {
		return s.results[:k], nil
	}
	return s.results, nil
}

type fakeGenerator struct {
	answer string
	err    error
}

func (g *fakeGenerator) Generate(context.Context, string) (string, error) {
	return g.answer, g.err
}

func kbPassage(content string) types.ScoredPassage {
	return types.ScoredPassage{
		Passage: types.Passage{
			Content: content,
			Metadata: types.PassageMetadata{
				SourceID:   "kb/grammar",
				SourceType: types.SourceLocal,
			},
		},
		Score: 10,
	}
}

func newTestChatHandler(t *testing.T, store retrieval.PassageStore, gen assistant.Generator) *ChatHandler {
	t.Helper()
	selector := retrieval.NewSelector(store, nil, retrieval.DefaultSelectorConfig(), zap.NewNop())
	mem := memory.NewManager(memory.DefaultConfig(), nil, nil, zap.NewNop())
	a := assistant.New(selector, nil, mem, gen, nil, nil, zap.NewNop())
	return NewChatHandler(a, zap.NewNop())
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)
	return rec
}

func TestHandleChat_Success(t *testing.T) {
	store := &fakeStore{results: []types.ScoredPassage{
		kbPassage("现在完成时由 have/has + 过去分词构成，表示动作对现在造成的影响。"),
	}}
	h := newTestChatHandler(t, store, &fakeGenerator{answer: "现在完成时用于描述过去发生但与现在相关的动作。"})

	rec := postChat(t, h, `{"query": "现在完成时的用法"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	answer, _ := data["answer"].(string)
	assert.True(t, strings.HasPrefix(answer, "现在完成时用于描述过去发生但与现在相关的动作。"))

	meta, ok := data["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), meta["num_retrieved_docs"])
}

func TestHandleChat_EmptyQuery(t *testing.T) {
	h := newTestChatHandler(t, &fakeStore{}, &fakeGenerator{answer: "ok"})

	rec := postChat(t, h, `{"query": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_QUERY", resp.Error.Code)
}

func TestHandleChat_InvalidBody(t *testing.T) {
	h := newTestChatHandler(t, &fakeStore{}, &fakeGenerator{answer: "ok"})

	rec := postChat(t, h, `{"query": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_QUERY", resp.Error.Code)
}

func TestHandleChat_UnknownStrategy(t *testing.T) {
	h := newTestChatHandler(t, &fakeStore{}, &fakeGenerator{answer: "ok"})

	rec := postChat(t, h, `{"query": "时态", "strategy": "telepathy"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_FORMAT", resp.Error.Code)
}

func TestHandleChat_RetrievalUnavailable(t *testing.T) {
	// 仅本地模式下检索失败是硬错误
	store := &fakeStore{err: context.DeadlineExceeded}
	h := newTestChatHandler(t, store, &fakeGenerator{answer: "ok"})

	rec := postChat(t, h, `{"query": "时态", "mode": "local_only"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RETRIEVAL_UNAVAILABLE", resp.Error.Code)
}

func TestHandleChat_GenerationFailure(t *testing.T) {
	store := &fakeStore{results: []types.ScoredPassage{
		kbPassage("定冠词 the 用于特指，不定冠词 a/an 用于泛指。"),
	}}
	h := newTestChatHandler(t, store, &fakeGenerator{err: context.DeadlineExceeded})

	rec := postChat(t, h, `{"query": "冠词的区别"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "GENERATION_FAILURE", resp.Error.Code)
}

func TestHandleChat_MethodNotAllowed(t *testing.T) {
	h := newTestChatHandler(t, &fakeStore{}, &fakeGenerator{answer: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil)
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
