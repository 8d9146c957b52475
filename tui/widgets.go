package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/termdetox/terminal-detox/commands"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/sources/hackernews"
	"github.com/termdetox/terminal-detox/sources/news"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/widget"
)

const (
	feedLimit     = 8
	forecastDays  = 3
	trendingItems = 3
)

var defaultStocks = []string{"AAPL", "GOOGL", "MSFT"}

func newQuoteWidget(env *Env, config registry.Config) Widget {
	return newQueryWidget(env, config, "Quote of the Day", "quote", nil,
		func(props *widget.Props) string {
			return env.API.QuoteURL()
		},
		func(quote types.QuoteOfTheDay, props *widget.Props, styles Styles, width int) []string {
			author := quote.Author
			if author == "" {
				author = "Unknown"
			}

			lines := wrap(styles.Text.Italic(true), "\""+quote.Text+"\"", width)
			return append(lines, styles.Muted.Render(fit("— "+author, width)))
		},
	)
}

func newWeatherWidget(env *Env, config registry.Config) Widget {
	defaults := map[string]interface{}{"defaultLocation": env.DefaultLocation}

	return newQueryWidget(env, config, "Weather", "weather", defaults,
		func(props *widget.Props) string {
			return env.API.WeatherURL(props.String("defaultLocation", env.DefaultLocation))
		},
		func(weather types.WeatherData, props *widget.Props, styles Styles, width int) []string {
			current := weather.Current
			lines := []string{
				styles.Accent.Render(fit(weather.Location, width)),
				styles.Title.Render(fmt.Sprintf("%.0f°C", current.Temp)) + " " + styles.Text.Render(fit(current.Condition, width-6)),
				styles.Muted.Render(fit(fmt.Sprintf("Feels like %.0f°C  Humidity %.0f%%", current.FeelsLike, current.Humidity), width)),
				styles.Muted.Render(fit(fmt.Sprintf("Wind %.0f km/h %s", current.WindSpeed, current.WindDirection), width)),
			}

			for i, day := range weather.Forecast {
				if i == forecastDays {
					break
				}
				label := day.Date
				if date, err := time.Parse("2006-01-02", day.Date); err == nil {
					label = date.Format("Mon")
				}
				lines = append(lines, styles.Text.Render(fit(fmt.Sprintf("%s  %.0f° / %.0f°  %s", label, day.High, day.Low, day.Condition), width)))
			}
			return lines
		},
	)
}

func newTrendingWidget(env *Env, config registry.Config) Widget {
	return newQueryWidget(env, config, "Trending", "trending", nil,
		func(props *widget.Props) string {
			return env.API.TrendingURL()
		},
		func(trending types.SocialTrending, props *widget.Props, styles Styles, width int) []string {
			lines := []string{styles.Accent.Render("GitHub")}
			for i, repo := range trending.GitHub {
				if i == trendingItems {
					break
				}
				lines = append(lines, styles.Text.Render(fit(fmt.Sprintf("%s ★%d", repo.Name, repo.Stars), width)))
			}
			if len(trending.GitHub) == 0 {
				lines = append(lines, styles.Muted.Render("No trending repos"))
			}

			lines = append(lines, styles.Accent.Render("Hacker News"))
			for i, story := range trending.HackerNews {
				if i == trendingItems {
					break
				}
				lines = append(lines, styles.Text.Render(fit(fmt.Sprintf("%s (%d)", story.Title, story.Score), width)))
			}
			if len(trending.HackerNews) == 0 {
				lines = append(lines, styles.Muted.Render("No stories"))
			}
			return lines
		},
	)
}

func newHackerNewsWidget(env *Env, config registry.Config) Widget {
	defaults := map[string]interface{}{"type": "top", "limit": feedLimit}

	w := newQueryWidget(env, config, "Hacker News", "Hacker News", defaults,
		func(props *widget.Props) string {
			return env.API.HackerNewsURL(props.String("type", "top"), props.Int("limit", feedLimit))
		},
		func(items []types.HackerNewsItem, props *widget.Props, styles Styles, width int) []string {
			lines := []string{styles.Muted.Render(fit(props.String("type", "top")+" stories (t to switch)", width))}
			for i, item := range items {
				lines = append(lines, fit(fmt.Sprintf("%d. %s", i+1, styles.Text.Render(item.Title)), width))
				lines = append(lines, styles.Muted.Render(fit(fmt.Sprintf("   %d points by %s, %d comments", item.Score, item.By, item.Descendants), width)))
			}
			if len(items) == 0 {
				lines = append(lines, styles.Muted.Render("No stories"))
			}
			return lines
		},
	)
	w.keys = func(key string, props *widget.Props) bool {
		if key != "t" {
			return false
		}
		return cycle(props, "type", hackernews.Types)
	}
	return w
}

func newNewsWidget(env *Env, config registry.Config) Widget {
	defaults := map[string]interface{}{"category": "general", "limit": feedLimit}

	w := newQueryWidget(env, config, "News", "news", defaults,
		func(props *widget.Props) string {
			return env.API.NewsURL(props.String("category", "general"), props.Int("limit", feedLimit))
		},
		func(items []types.NewsItem, props *widget.Props, styles Styles, width int) []string {
			lines := []string{styles.Muted.Render(fit(props.String("category", "general")+" (c to switch)", width))}
			for _, item := range items {
				lines = append(lines, styles.Text.Render(fit("• "+item.Title, width)))
				lines = append(lines, styles.Muted.Render(fit("  "+item.Source, width)))
			}
			if len(items) == 0 {
				lines = append(lines, styles.Muted.Render("No headlines"))
			}
			return lines
		},
	)
	w.keys = func(key string, props *widget.Props) bool {
		if key != "c" {
			return false
		}
		return cycle(props, "category", news.Categories())
	}
	return w
}

func newRedditWidget(env *Env, config registry.Config) Widget {
	defaults := map[string]interface{}{"subreddit": "all", "limit": feedLimit}

	return newQueryWidget(env, config, "Reddit", "Reddit posts", defaults,
		func(props *widget.Props) string {
			return env.API.RedditURL(props.String("subreddit", "all"), props.Int("limit", feedLimit))
		},
		func(posts []types.RedditPost, props *widget.Props, styles Styles, width int) []string {
			lines := []string{styles.Muted.Render(fit("r/"+props.String("subreddit", "all"), width))}
			for _, post := range posts {
				lines = append(lines, styles.Text.Render(fit("• "+post.Title, width)))
				lines = append(lines, styles.Muted.Render(fit(fmt.Sprintf("  ↑%d  %d comments  r/%s", post.Score, post.NumComments, post.Subreddit), width)))
			}
			if len(posts) == 0 {
				lines = append(lines, styles.Muted.Render("No posts"))
			}
			return lines
		},
	)
}

func newCryptoWidget(env *Env, config registry.Config) Widget {
	defaults := map[string]interface{}{"symbols": strings.Join(commands.DefaultCoins(), ",")}

	return newQueryWidget(env, config, "Crypto", "crypto prices", defaults,
		func(props *widget.Props) string {
			return env.API.CryptoURL(commands.CoinIDs(splitList(props.String("symbols", ""))))
		},
		func(prices map[string]types.CryptoPrice, props *widget.Props, styles Styles, width int) []string {
			lines := make([]string, 0, len(prices))
			for _, id := range commands.CoinIDs(splitList(props.String("symbols", ""))) {
				price, ok := prices[id]
				if !ok {
					continue
				}
				line := fmt.Sprintf("%-10s $%s ", id, commands.FormatMoney(price.USD))
				lines = append(lines, fit(styles.Text.Render(line)+styles.Change(price.USD24hChange, commands.FormatChange(price.USD24hChange)), width))
			}
			if len(lines) == 0 {
				lines = append(lines, styles.Muted.Render("No prices"))
			}
			return lines
		},
	)
}

func newStocksWidget(env *Env, config registry.Config) Widget {
	defaults := map[string]interface{}{"symbols": strings.Join(defaultStocks, ",")}

	return newQueryWidget(env, config, "Stocks", "stocks", defaults,
		func(props *widget.Props) string {
			symbols := splitList(strings.ToUpper(props.String("symbols", "")))
			return env.API.StocksURL(symbols, []string{"1d", "1w", "1m"})
		},
		func(quotes []types.StockQuote, props *widget.Props, styles Styles, width int) []string {
			lines := make([]string, 0, len(quotes))
			for _, quote := range quotes {
				line := styles.Text.Render(fmt.Sprintf("%-6s $%s ", quote.Symbol, commands.FormatMoney(quote.Price))) +
					styles.Change(quote.ChangePercent, commands.FormatChange(quote.ChangePercent))
				if quote.ChangePercent1w != nil {
					line += styles.Muted.Render(" 1w ") + styles.Change(*quote.ChangePercent1w, commands.FormatChange(*quote.ChangePercent1w))
				}
				if quote.ChangePercent1m != nil {
					line += styles.Muted.Render(" 1m ") + styles.Change(*quote.ChangePercent1m, commands.FormatChange(*quote.ChangePercent1m))
				}
				lines = append(lines, fit(line, width))
			}
			if len(lines) == 0 {
				lines = append(lines, styles.Muted.Render("No quotes"))
			}
			return lines
		},
	)
}

// splitList splits a comma or space separated prop value
func splitList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func wrap(style lipgloss.Style, text string, width int) []string {
	if width <= 0 {
		return nil
	}
	return strings.Split(style.Width(width).Render(text), "\n")
}
