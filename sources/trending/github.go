package trending

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

const maxRepos = 10

// Scrapes the GitHub trending page,
// falling back to the search API for recently created repositories
func (a *Adapter) fetchGitHub(ctx context.Context) ([]types.TrendingRepo, error) {
	repos, err := a.scrapeTrendingPage(ctx)
	if err == nil && len(repos) > 0 {
		return repos, nil
	}

	a.logger.Debug().Err(err).Msg("GitHub trending page unusable; using the search API")
	return a.searchRecentRepos(ctx)
}

func (a *Adapter) scrapeTrendingPage(ctx context.Context) ([]types.TrendingRepo, error) {
	headers := http.Header{"Accept": []string{"text/html"}}
	body, err := a.client.Get(ctx, "GitHub", a.githubURL+"/trending", headers)
	if err != nil {
		return nil, err
	}

	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, sources.NewDecodeError("GitHub", err)
	}

	rows, err := htmlquery.QueryAll(doc, "//article[contains(@class, 'Box-row')]")
	if err != nil {
		return nil, errors.Wrap(err, "could not query the GitHub trending page")
	}

	repos := []types.TrendingRepo{}
	for _, row := range rows {
		if len(repos) == maxRepos {
			break
		}

		link := htmlquery.FindOne(row, ".//h2/a")
		if link == nil {
			continue
		}
		path := strings.Trim(htmlquery.SelectAttr(link, "href"), "/")
		if path == "" {
			continue
		}

		repo := types.TrendingRepo{
			Name:        path,
			Description: "No description",
			Language:    "Unknown",
			URL:         a.githubURL + "/" + path,
		}
		if description := nodeText(htmlquery.FindOne(row, ".//p")); description != "" {
			repo.Description = description
		}
		if language := nodeText(htmlquery.FindOne(row, ".//span[@itemprop='programmingLanguage']")); language != "" {
			repo.Language = language
		}
		stars := nodeText(htmlquery.FindOne(row, ".//a[contains(@href, '/stargazers')]"))
		repo.Stars, _ = strconv.Atoi(strings.ReplaceAll(stars, ",", ""))

		repos = append(repos, repo)
	}

	return repos, nil
}

// Expected JSON from the GitHub repository search
type searchResponse struct {
	Items []struct {
		FullName        string  `json:"full_name"`
		Description     *string `json:"description"`
		Language        *string `json:"language"`
		StargazersCount int     `json:"stargazers_count"`
		HTMLURL         string  `json:"html_url"`
	} `json:"items"`
}

func (a *Adapter) searchRecentRepos(ctx context.Context) ([]types.TrendingRepo, error) {
	since := a.now().AddDate(0, 0, -30).Format("2006-01-02")
	query := url.Values{}
	query.Set("q", "created:>"+since)
	query.Set("sort", "stars")
	query.Set("order", "desc")
	query.Set("per_page", strconv.Itoa(maxRepos))

	headers := http.Header{"Accept": []string{"application/vnd.github.v3+json"}}
	var response searchResponse
	err := a.client.GetJSON(ctx, "GitHub", a.githubAPIURL+"/search/repositories?"+query.Encode(), headers, &response)
	if err != nil {
		return nil, err
	}

	repos := []types.TrendingRepo{}
	for _, item := range response.Items {
		repo := types.TrendingRepo{
			Name:        item.FullName,
			Description: "No description",
			Language:    "Unknown",
			Stars:       item.StargazersCount,
			URL:         item.HTMLURL,
		}
		if item.Description != nil && *item.Description != "" {
			repo.Description = *item.Description
		}
		if item.Language != nil && *item.Language != "" {
			repo.Language = *item.Language
		}

		repos = append(repos, repo)
	}

	return repos, nil
}

// Collects the whitespace-normalized text below a node ("" for nil)
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}

	var buf bytes.Buffer
	collectText(n, &buf)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func collectText(n *html.Node, buf *bytes.Buffer) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}
