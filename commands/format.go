package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/termdetox/terminal-detox/types"
)

const displayTimeFormat = "1/2/2006, 3:04:05 PM"

func formatWeather(weather types.WeatherData) string {
	updated := weather.LastUpdated
	if parsed, err := time.Parse(time.RFC3339, weather.LastUpdated); err == nil {
		updated = parsed.Local().Format(displayTimeFormat)
	}

	return fmt.Sprintf("Location: %s\n%s°C - %s\nLast updated: %s",
		weather.Location, formatNumber(weather.Current.Temp), weather.Current.Condition, updated)
}

func formatNews(category string, items []types.NewsItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %s news available", category)
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return fmt.Sprintf("Top %d %s headlines:\n%s", len(items), category, numbered(titles))
}

func formatHackerNews(items []types.HackerNewsItem, limit int) string {
	if len(items) == 0 {
		return "No hackernews data"
	}
	if len(items) > limit {
		items = items[:limit]
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return "Top Hacker News:\n" + numbered(titles)
}

func formatTrending(trending *types.SocialTrending) string {
	if trending == nil || len(trending.GitHub) == 0 {
		return "No trending data"
	}

	repos := trending.GitHub
	if len(repos) > 5 {
		repos = repos[:5]
	}

	lines := make([]string, len(repos))
	for i, repo := range repos {
		lines[i] = fmt.Sprintf("%s (%d ★)", repo.Name, repo.Stars)
	}
	return "Trending repos:\n" + numbered(lines)
}

func formatQuote(quote *types.QuoteOfTheDay) string {
	if quote == nil {
		return "No quote available"
	}

	author := quote.Author
	if author == "" {
		author = "Unknown"
	}
	return fmt.Sprintf("%s\n— %s", quote.Text, author)
}

func formatReddit(subreddit string, posts []types.RedditPost) string {
	if len(posts) == 0 {
		return fmt.Sprintf("No posts from r/%s", subreddit)
	}

	titles := make([]string, len(posts))
	for i, post := range posts {
		titles[i] = post.Title
	}
	return fmt.Sprintf("Top posts from r/%s:\n%s", subreddit, numbered(titles))
}

func formatCrypto(ids []string, prices map[string]types.CryptoPrice) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		price, ok := prices[id]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: $%s (%s)", id, FormatMoney(price.USD), FormatChange(price.USD24hChange)))
	}

	if len(lines) == 0 {
		return "No crypto data"
	}
	return "Crypto prices:\n" + strings.Join(lines, "\n")
}

func formatCryptoMatch(query string, match *types.CryptoMatch) string {
	if match == nil {
		return fmt.Sprintf("No coin matches %s", query)
	}
	if match.Name == "" {
		return fmt.Sprintf("Found: %s", match.ID)
	}
	return fmt.Sprintf("Found: %s (%s) -> %s", match.Name, match.Symbol, match.ID)
}

func formatStocks(quotes []types.StockQuote) string {
	if len(quotes) == 0 {
		return "No stock data"
	}

	lines := make([]string, len(quotes))
	for i, quote := range quotes {
		line := fmt.Sprintf("%s: $%s (%s, %s)",
			quote.Symbol, FormatMoney(quote.Price), signed(quote.Change), FormatChange(quote.ChangePercent))
		if quote.ChangePercent1w != nil {
			line += " 1w " + FormatChange(*quote.ChangePercent1w)
		}
		if quote.ChangePercent1m != nil {
			line += " 1m " + FormatChange(*quote.ChangePercent1m)
		}
		lines[i] = line
	}
	return "Stock quotes:\n" + strings.Join(lines, "\n")
}

// FormatChange renders a percentage with an explicit sign for gains ("+1.25%")
func FormatChange(percent float64) string {
	return signed(percent) + "%"
}

func signed(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(value, 'f', 2, 64)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatMoney renders two decimals with thousands separators ("67,012.50")
func FormatMoney(value float64) string {
	raw := strconv.FormatFloat(value, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign, raw = "-", raw[1:]
	}

	whole, fraction := raw, ""
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		whole, fraction = raw[:dot], raw[dot:]
	}

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return sign + grouped.String() + fraction
}

func numbered(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fmt.Sprintf("%d. %s", i+1, line)
	}
	return strings.Join(out, "\n")
}
