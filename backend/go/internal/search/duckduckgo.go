package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Jaffer/backend/go/internal/config"
	pkghttp "Jaffer/backend/go/pkg/http"

	"golang.org/x/net/html"
)

// DefaultDuckDuckGoURL 是不需要 API 密钥的 HTML 端点。
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// Result 是解析出的一条搜索结果。
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// DuckDuckGo 抓取 DuckDuckGo HTML 端点并拼接结果摘要。
type DuckDuckGo struct {
	client     *pkghttp.Client
	baseURL    string
	maxResults int
}

// NewDuckDuckGo 创建一个请求经过熔断器的 DuckDuckGo 搜索客户端。
func NewDuckDuckGo(cfg config.SearchConfig, breaker config.CircuitBreakerConfig) (*DuckDuckGo, error) {
	client, err := pkghttp.NewClient(breaker, config.Duration(cfg.Timeout, 10*time.Second))
	if err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &DuckDuckGo{client: client, baseURL: baseURL, maxResults: maxResults}, nil
}

// Available 在熔断器打开期间为 false。
func (d *DuckDuckGo) Available() bool {
	return d.client.Available()
}

// Search 返回前几条结果的摘要，以空格拼接。
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	results, err := d.Results(ctx, query)
	if err != nil {
		return "", err
	}
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}
	return strings.Join(snippets, " "), nil
}

// Results 发起请求并解析最多 maxResults 条结果。
func (d *DuckDuckGo) Results(ctx context.Context, query string) ([]Result, error) {
	searchURL := d.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// 模拟浏览器的请求头
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 限制 1MB
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseResults(string(body), d.maxResults)
}

// parseResults 从 DuckDuckGo HTML 中提取搜索结果。
func parseResults(htmlContent string, maxResults int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []Result

	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") && hasClass(n, "results_links") {
			if r := extractResult(n); r.URL != "" && r.Title != "" {
				results = append(results, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findResults(c)
		}
	}

	findResults(doc)
	return results, nil
}

// extractResult 从一个结果 div 中提取单条结果。
func extractResult(n *html.Node) Result {
	var result Result

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				result.URL = attrValue(n, "href")
				result.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				result.Snippet = textContent(n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)

	// 还原 DuckDuckGo 的跳转链接。
	const redirect = "//duckduckgo.com/l/?uddg="
	if strings.HasPrefix(result.URL, redirect) {
		if decoded, err := url.QueryUnescape(strings.TrimPrefix(result.URL, redirect)); err == nil {
			if idx := strings.Index(decoded, "&"); idx > 0 {
				decoded = decoded[:idx]
			}
			result.URL = decoded
		}
	}
	return result
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// textContent 返回节点内规整过空白的文本。
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
