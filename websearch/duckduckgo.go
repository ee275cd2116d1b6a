package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultDuckDuckGoBaseURL = "https://api.duckduckgo.com/"

// DuckDuckGoEngine 基于 DuckDuckGo Instant Answer API 的搜索引擎，
// 免费且无需 API 密钥。
type DuckDuckGoEngine struct {
	baseURL string
	client  *http.Client
}

// NewDuckDuckGoEngine 创建 DuckDuckGo 引擎。baseURL 为空时使用官方地
// 址；client 为 nil 时使用带 10 秒超时的默认客户端。
func NewDuckDuckGoEngine(baseURL string, client *http.Client) *DuckDuckGoEngine {
	if baseURL == "" {
		baseURL = defaultDuckDuckGoBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DuckDuckGoEngine{baseURL: baseURL, client: client}
}

// Name returns the engine name.
func (e *DuckDuckGoEngine) Name() string { return "DuckDuckGo" }

// ddgResponse DuckDuckGo Instant Answer API 响应的相关字段。
type ddgResponse struct {
	Heading     string `json:"Heading"`
	Abstract    string `json:"Abstract"`
	AbstractURL string `json:"AbstractURL"`

	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// Search 查询 Instant Answer API，返回摘要和相关主题。
func (e *DuckDuckGoEngine) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build duckduckgo request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode duckduckgo response: %w", err)
	}

	results := make([]Result, 0, maxResults)

	// 主摘要优先。
	if data.Abstract != "" {
		results = append(results, Result{
			Title:   data.Heading,
			Content: data.Abstract,
			URL:     data.AbstractURL,
			Source:  "DuckDuckGo Abstract",
		})
	}

	for _, topic := range data.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:   topicTitle(topic.FirstURL),
			Content: topic.Text,
			URL:     topic.FirstURL,
			Source:  "DuckDuckGo Related",
		})
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// topicTitle 从相关主题的 URL 末段推导标题。
func topicTitle(firstURL string) string {
	if firstURL == "" {
		return ""
	}
	parts := strings.Split(firstURL, "/")
	last := parts[len(parts)-1]
	return strings.ReplaceAll(last, "_", " ")
}
