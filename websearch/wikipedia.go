package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultWikipediaRestBaseURL   = "https://en.wikipedia.org/api/rest_v1"
	defaultWikipediaActionBaseURL = "https://en.wikipedia.org/w/api.php"

	// supplementaryTimeout 逐页摘要这类补充请求用更短的超时。
	supplementaryTimeout = 5 * time.Second
)

// WikipediaEngine 维基百科搜索引擎，适合学术性的语法内容。先查 REST
// 摘要接口，未命中时退回 Action API 的全文搜索。
type WikipediaEngine struct {
	restBaseURL   string
	actionBaseURL string
	client        *http.Client
}

// NewWikipediaEngine 创建维基百科引擎。base URL 为空时使用官方地址。
func NewWikipediaEngine(restBaseURL, actionBaseURL string, client *http.Client) *WikipediaEngine {
	if restBaseURL == "" {
		restBaseURL = defaultWikipediaRestBaseURL
	}
	if actionBaseURL == "" {
		actionBaseURL = defaultWikipediaActionBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WikipediaEngine{
		restBaseURL:   restBaseURL,
		actionBaseURL: actionBaseURL,
		client:        client,
	}
}

// Name returns the engine name.
func (e *WikipediaEngine) Name() string { return "Wikipedia" }

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Search 先尝试按标题取页面摘要；404 或空摘要时退回全文搜索。
func (e *WikipediaEngine) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	summaryURL := e.restBaseURL + "/page/summary/" + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, summaryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build wikipedia request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var summary wikiSummary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			return nil, fmt.Errorf("decode wikipedia summary: %w", err)
		}
		if summary.Extract != "" {
			return []Result{{
				Title:   summary.Title,
				Content: summary.Extract,
				URL:     summary.ContentURLs.Desktop.Page,
				Source:  "Wikipedia",
			}}, nil
		}
	}

	// 直接取摘要失败，退回全文搜索。
	return e.searchFallback(ctx, query, maxResults)
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title  string `json:"title"`
			PageID int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (e *WikipediaEngine) searchFallback(ctx context.Context, query string, maxResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("utf8", "1")
	params.Set("format", "json")
	params.Set("srlimit", strconv.Itoa(maxResults))

	var search wikiSearchResponse
	if err := e.getJSON(ctx, e.actionBaseURL+"?"+params.Encode(), &search); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	results := make([]Result, 0, maxResults)
	for _, item := range search.Query.Search {
		if item.PageID == 0 || len(results) >= maxResults {
			continue
		}
		extract, err := e.pageExtract(ctx, item.PageID)
		if err != nil || extract == "" {
			continue
		}
		results = append(results, Result{
			Title:   item.Title,
			Content: extract,
			URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(item.Title),
			Source:  "Wikipedia",
		})
	}
	return results, nil
}

// pageExtract 取单页的纯文本摘要，属于补充请求，用更短的超时。
func (e *WikipediaEngine) pageExtract(ctx context.Context, pageID int) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("pageids", strconv.Itoa(pageID))
	params.Set("utf8", "1")
	params.Set("format", "json")

	ctx, cancel := context.WithTimeout(ctx, supplementaryTimeout)
	defer cancel()

	var extract wikiExtractResponse
	if err := e.getJSON(ctx, e.actionBaseURL+"?"+params.Encode(), &extract); err != nil {
		return "", err
	}
	page, ok := extract.Query.Pages[strconv.Itoa(pageID)]
	if !ok {
		return "", nil
	}
	return page.Extract, nil
}

func (e *WikipediaEngine) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
