package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/clocks"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/sources/crypto"
	"github.com/termdetox/terminal-detox/theme"
	"github.com/termdetox/terminal-detox/todo"
	"github.com/termdetox/terminal-detox/types"
)

// Banner is printed when the command line opens
const Banner = "Terminal Detox CLI v1.0.0\nType \"help\" for available commands.\n"

const (
	defaultTimeout   = 15 * time.Second
	summaryLimit     = 5
	defaultCategory  = "general"
	defaultSubreddit = "all"
	defaultStoryType = "top"
)

var (
	defaultCoins   = []string{"BTC", "ETH", "SOL", "DOGE"}
	defaultTickers = []string{"AAPL"}
	allPeriods     = []string{"1d", "1w", "1m"}
)

// Help lists every command with a short description
var Help = []string{
	"help - Show available commands",
	"weather [location] - Get weather for location",
	"news [category] - Get news (tech, business, sports, etc.)",
	"reddit [subreddit] - Get posts from subreddit",
	"hackernews - Get Hacker News top stories",
	"trending - Get trending topics",
	"quote - Get random quote",
	"crypto [symbols] - Get crypto prices (crypto search <name> to look a coin up)",
	"stocks [symbols] - Get stock quotes",
	"widgets - List enabled and available widgets",
	"toggle <widget> - Enable or disable a widget",
	"move <widget> up|down - Reorder a widget",
	"refresh - Refresh every widget",
	"todo [add <text>|done <n>|rm <n>|list] - Manage tasks",
	"clock [add <zone>|rm <zone>|list] - Manage world clocks",
	"theme [name] - Change theme (" + strings.Join(theme.Names(), ", ") + ")",
	"clear - Clear terminal",
	"exit - Close CLI",
}

// Fetcher is the API surface data commands need
type Fetcher interface {
	Weather(ctx context.Context, location string) types.Response[types.WeatherData]
	News(ctx context.Context, category string, limit int) types.Response[[]types.NewsItem]
	Reddit(ctx context.Context, subreddit string, limit int) types.Response[[]types.RedditPost]
	HackerNews(ctx context.Context, storyType string, limit int) types.Response[[]types.HackerNewsItem]
	Trending(ctx context.Context) types.Response[types.SocialTrending]
	Quote(ctx context.Context) types.Response[types.QuoteOfTheDay]
	Crypto(ctx context.Context, ids []string) types.Response[map[string]types.CryptoPrice]
	CryptoSearch(ctx context.Context, query string) types.Response[types.CryptoMatch]
	Stocks(ctx context.Context, symbols []string, periods []string) types.Response[[]types.StockQuote]
}

// Outcome is what executing a line did
type Outcome int

const (
	// Ignored means the input was blank
	Ignored Outcome = iota
	// Immediate means the output was written straight away
	Immediate
	// Dispatched means a placeholder was written and a fetch is running
	Dispatched
	// Cleared means the transcript was emptied
	Cleared
	// Exited means the command line should close
	Exited
)

// Options configures a Dispatcher
type Options struct {
	API     Fetcher
	Themes  *theme.Store
	Widgets *registry.Registry
	Todos   *todo.List
	Clocks  *clocks.Clocks
	Logger  zerolog.Logger
	Timeout time.Duration
	Now     func() time.Time
	OnExit  func()
}

// Dispatcher runs command line input against the dashboard state.
// Data commands write a placeholder line and resolve it from a
// background fetch; they never make Execute fail
type Dispatcher struct {
	api        Fetcher
	themes     *theme.Store
	widgets    *registry.Registry
	todos      *todo.List
	clocks     *clocks.Clocks
	logger     zerolog.Logger
	timeout    time.Duration
	now        func() time.Time
	onExit     func()
	transcript *Transcript
	handlers   map[string]handler
	inFlight   sync.WaitGroup
}

type handler func(input string, args []string) Outcome

// NewDispatcher creates a dispatcher with an empty transcript
func NewDispatcher(options Options) *Dispatcher {
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.OnExit == nil {
		options.OnExit = func() {}
	}

	d := &Dispatcher{
		api:        options.API,
		themes:     options.Themes,
		widgets:    options.Widgets,
		todos:      options.Todos,
		clocks:     options.Clocks,
		logger:     options.Logger,
		timeout:    options.Timeout,
		now:        options.Now,
		onExit:     options.OnExit,
		transcript: NewTranscript(),
	}

	d.handlers = map[string]handler{
		"help":       d.help,
		"weather":    d.weather,
		"news":       d.news,
		"reddit":     d.reddit,
		"hackernews": d.hackerNews,
		"trending":   d.trending,
		"quote":      d.quote,
		"crypto":     d.crypto,
		"stocks":     d.stocks,
		"widgets":    d.listWidgets,
		"toggle":     d.toggle,
		"move":       d.move,
		"refresh":    d.refresh,
		"todo":       d.todo,
		"clock":      d.clock,
		"theme":      d.theme,
		"clear":      d.clear,
		"exit":       d.exit,
	}

	return d
}

// Transcript gets the scrollback written by the dispatcher
func (d *Dispatcher) Transcript() *Transcript {
	return d.transcript
}

// Names gets every command name
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open resets the transcript to the banner
func (d *Dispatcher) Open() {
	d.transcript.Clear()
	d.transcript.Append("", Banner, false)
}

// Execute runs one line of input
func (d *Dispatcher) Execute(input string) Outcome {
	command, args, ok := Tokenize(input)
	if !ok {
		return Ignored
	}

	echo := strings.TrimSpace(input)
	run, known := d.handlers[command]
	if !known {
		message := fmt.Sprintf("Command not found: %s. Type \"help\" for available commands.", command)
		if hint := suggest(command, d.Names()); hint != "" {
			message += fmt.Sprintf("\nDid you mean \"%s\"?", hint)
		}
		d.transcript.Append(echo, message, false)
		return Immediate
	}

	return run(echo, args)
}

// Wait blocks until every dispatched fetch has resolved its line
func (d *Dispatcher) Wait() {
	d.inFlight.Wait()
}

func (d *Dispatcher) say(input string, output string) Outcome {
	d.transcript.Append(input, output, false)
	return Immediate
}

// dispatch writes the placeholder and resolves it from the fetch on a goroutine
func (d *Dispatcher) dispatch(input string, placeholder string, command string, fetch func(ctx context.Context) (string, error)) Outcome {
	id := d.transcript.Append(input, placeholder, true)

	d.inFlight.Add(1)
	go func() {
		defer d.inFlight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		output, err := fetch(ctx)
		if err != nil {
			d.logger.Debug().Err(err).Str("command", command).Msg("command fetch failed")
			d.transcript.Resolve(id, err.Error(), true)
			return
		}
		d.transcript.Resolve(id, output, false)
	}()

	return Dispatched
}

// pushProps forwards a command's parameters to the matching widget
func (d *Dispatcher) pushProps(id string, props map[string]interface{}) {
	if d.widgets == nil {
		return
	}

	err := d.widgets.UpdateProps(id, props)
	if err != nil {
		d.logger.Debug().Err(err).Str("widget", id).Msg("widget props not updated")
	}
}

// failure picks the envelope error, or the fallback when the envelope had none
func failure[T any](response types.Response[T], fallback string) error {
	if message := response.ErrorMessage(); message != "" {
		return errors.New(message)
	}
	return errors.New(fallback)
}

func (d *Dispatcher) help(input string, args []string) Outcome {
	return d.say(input, strings.Join(Help, "\n"))
}

func (d *Dispatcher) weather(input string, args []string) Outcome {
	if len(args) == 0 {
		return d.say(input, "Usage: weather [location]\nExample: weather New York")
	}

	location := strings.Join(args, " ")
	d.pushProps("weather", map[string]interface{}{"defaultLocation": location})

	return d.dispatch(input, fmt.Sprintf("Fetching weather for %s...", location), "weather", func(ctx context.Context) (string, error) {
		response := d.api.Weather(ctx, location)
		if response.Data == nil {
			return "", failure(response, "No weather data available")
		}
		return formatWeather(*response.Data), nil
	})
}

func (d *Dispatcher) news(input string, args []string) Outcome {
	category := defaultCategory
	if len(args) > 0 {
		category = args[0]
	}
	d.pushProps("news", map[string]interface{}{"category": category})

	return d.dispatch(input, fmt.Sprintf("Fetching %s news...", category), "news", func(ctx context.Context) (string, error) {
		response := d.api.News(ctx, category, summaryLimit)
		if response.Data == nil {
			return "", failure(response, fmt.Sprintf("No %s news available", category))
		}
		return formatNews(category, *response.Data), nil
	})
}

func (d *Dispatcher) reddit(input string, args []string) Outcome {
	subreddit := defaultSubreddit
	if len(args) > 0 {
		subreddit = args[0]
	}
	d.pushProps("reddit", map[string]interface{}{"subreddit": subreddit})

	return d.dispatch(input, fmt.Sprintf("Fetching posts from r/%s...", subreddit), "reddit", func(ctx context.Context) (string, error) {
		response := d.api.Reddit(ctx, subreddit, summaryLimit)
		if response.Data == nil {
			return "", failure(response, fmt.Sprintf("No posts from r/%s", subreddit))
		}
		return formatReddit(subreddit, *response.Data), nil
	})
}

func (d *Dispatcher) hackerNews(input string, args []string) Outcome {
	return d.dispatch(input, "Fetching Hacker News top stories...", "hackernews", func(ctx context.Context) (string, error) {
		response := d.api.HackerNews(ctx, defaultStoryType, summaryLimit)
		if response.Data == nil {
			return "", failure(response, "No hackernews data")
		}
		return formatHackerNews(*response.Data, summaryLimit), nil
	})
}

func (d *Dispatcher) trending(input string, args []string) Outcome {
	return d.dispatch(input, "Fetching trending topics...", "trending", func(ctx context.Context) (string, error) {
		response := d.api.Trending(ctx)
		if response.Data == nil {
			return "", failure(response, "No trending data")
		}
		return formatTrending(response.Data), nil
	})
}

func (d *Dispatcher) quote(input string, args []string) Outcome {
	return d.dispatch(input, "Fetching random quote...", "quote", func(ctx context.Context) (string, error) {
		response := d.api.Quote(ctx)
		if response.Data == nil {
			return "", failure(response, "No quote available")
		}
		return formatQuote(response.Data), nil
	})
}

// CoinIDs resolves ticker symbols (BTC) to coin ids (bitcoin); other values pass through lower-cased
func CoinIDs(symbols []string) []string {
	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToLower(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		if id, ok := crypto.CoinID(symbol); ok {
			symbol = id
		}
		ids = append(ids, symbol)
	}
	return ids
}

// DefaultCoins gets the symbols the crypto widget shows by default
func DefaultCoins() []string {
	return append([]string(nil), defaultCoins...)
}

func (d *Dispatcher) crypto(input string, args []string) Outcome {
	if len(args) > 0 && strings.ToLower(args[0]) == "search" {
		query := strings.Join(args[1:], " ")
		if query == "" {
			return d.say(input, "Usage: crypto search <name or symbol>")
		}

		return d.dispatch(input, fmt.Sprintf("Searching for %s...", query), "crypto", func(ctx context.Context) (string, error) {
			response := d.api.CryptoSearch(ctx, query)
			if response.Data == nil && response.ErrorMessage() != "" {
				return "", failure(response, "")
			}
			return formatCryptoMatch(query, response.Data), nil
		})
	}

	symbols := args
	if len(symbols) == 0 {
		symbols = defaultCoins
	}
	ids := CoinIDs(symbols)
	d.pushProps("crypto", map[string]interface{}{"symbols": strings.Join(symbols, ",")})

	return d.dispatch(input, "Fetching crypto prices...", "crypto", func(ctx context.Context) (string, error) {
		response := d.api.Crypto(ctx, ids)
		if response.Data == nil {
			return "", failure(response, "No crypto data")
		}
		return formatCrypto(ids, *response.Data), nil
	})
}

func (d *Dispatcher) stocks(input string, args []string) Outcome {
	symbols := make([]string, 0, len(args))
	for _, arg := range args {
		symbols = append(symbols, strings.ToUpper(arg))
	}
	if len(symbols) == 0 {
		symbols = defaultTickers
	}
	d.pushProps("stocks", map[string]interface{}{"symbols": strings.Join(symbols, ",")})

	return d.dispatch(input, fmt.Sprintf("Fetching quotes for %s...", strings.Join(symbols, ", ")), "stocks", func(ctx context.Context) (string, error) {
		response := d.api.Stocks(ctx, symbols, allPeriods)
		if response.Data == nil {
			return "", failure(response, "No stock data")
		}
		return formatStocks(*response.Data), nil
	})
}

func (d *Dispatcher) listWidgets(input string, args []string) Outcome {
	enabled := make([]string, 0)
	for _, widget := range d.widgets.Widgets() {
		enabled = append(enabled, widget.ID)
	}

	available := make([]string, 0)
	for _, widget := range registry.Catalog() {
		if !d.widgets.IsEnabled(widget.ID) {
			available = append(available, widget.ID)
		}
	}

	return d.say(input, fmt.Sprintf("Enabled: %s\nAvailable: %s",
		listOrNone(enabled), listOrNone(available)))
}

func (d *Dispatcher) toggle(input string, args []string) Outcome {
	if len(args) == 0 {
		return d.say(input, "Usage: toggle <widget>")
	}

	id := strings.ToLower(args[0])
	enabled, err := d.widgets.Toggle(id)
	if err != nil {
		return d.fail(input, err)
	}
	if enabled {
		return d.say(input, fmt.Sprintf("Widget %s enabled", id))
	}
	return d.say(input, fmt.Sprintf("Widget %s disabled", id))
}

func (d *Dispatcher) move(input string, args []string) Outcome {
	if len(args) < 2 {
		return d.say(input, "Usage: move <widget> up|down")
	}

	id := strings.ToLower(args[0])
	direction, err := registry.ParseDirection(args[1])
	if err != nil {
		return d.fail(input, err)
	}

	moved, err := d.widgets.Move(id, direction)
	if err != nil {
		return d.fail(input, err)
	}
	if !moved {
		if direction == registry.Up {
			return d.say(input, fmt.Sprintf("%s is already at the top", id))
		}
		return d.say(input, fmt.Sprintf("%s is already at the bottom", id))
	}
	return d.say(input, fmt.Sprintf("Moved %s %s", id, strings.ToLower(args[1])))
}

func (d *Dispatcher) refresh(input string, args []string) Outcome {
	d.widgets.RefreshAll()
	return d.say(input, "Refreshing all widgets...")
}

func (d *Dispatcher) todo(input string, args []string) Outcome {
	action := "list"
	if len(args) > 0 {
		action = strings.ToLower(args[0])
	}
	rest := strings.Join(args[min(1, len(args)):], " ")

	switch action {
	case "list":
		items := d.todos.Items()
		if len(items) == 0 {
			return d.say(input, "No tasks")
		}
		lines := make([]string, len(items))
		for i, item := range items {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			lines[i] = fmt.Sprintf("[%s] %s", mark, item.Text)
		}
		return d.say(input, numbered(lines)+"\n"+d.todos.Summary())

	case "add":
		item, err := d.todos.Add(rest)
		if err != nil {
			return d.fail(input, err)
		}
		return d.say(input, fmt.Sprintf("Added task: %s", item.Text))

	case "done":
		item, err := d.todos.Toggle(rest)
		if err != nil {
			return d.fail(input, err)
		}
		if item.Completed {
			return d.say(input, fmt.Sprintf("Completed: %s", item.Text))
		}
		return d.say(input, fmt.Sprintf("Reopened: %s", item.Text))

	case "rm":
		item, err := d.todos.Delete(rest)
		if err != nil {
			return d.fail(input, err)
		}
		return d.say(input, fmt.Sprintf("Removed task: %s", item.Text))
	}

	return d.say(input, "Usage: todo [add <text>|done <n>|rm <n>|list]")
}

func (d *Dispatcher) clock(input string, args []string) Outcome {
	action := "list"
	if len(args) > 0 {
		action = strings.ToLower(args[0])
	}
	zone := ""
	if len(args) > 1 {
		zone = args[1]
	}

	switch action {
	case "list":
		readings := d.clocks.Read(d.now())
		if len(readings) == 0 {
			return d.say(input, "No clocks. Add one with: clock add Europe/London")
		}
		lines := make([]string, len(readings))
		for i, reading := range readings {
			lines[i] = fmt.Sprintf("%s  %s", reading.Time, reading.Zone)
		}
		return d.say(input, strings.Join(lines, "\n"))

	case "add":
		added, err := d.clocks.Add(zone)
		if err != nil {
			return d.fail(input, err)
		}
		if !added {
			return d.say(input, fmt.Sprintf("%s is already shown", zone))
		}
		return d.say(input, fmt.Sprintf("Added clock %s", zone))

	case "rm":
		if !d.clocks.Remove(zone) {
			return d.say(input, fmt.Sprintf("No clock for %s", zone))
		}
		return d.say(input, fmt.Sprintf("Removed clock %s", zone))
	}

	return d.say(input, "Usage: clock [add <zone>|rm <zone>|list]")
}

func (d *Dispatcher) theme(input string, args []string) Outcome {
	names := strings.Join(theme.Names(), ", ")
	if len(args) == 0 {
		return d.say(input, fmt.Sprintf("Current theme: %s\nAvailable themes: %s", d.themes.Current(), names))
	}

	err := d.themes.Set(args[0])
	if err != nil {
		return d.say(input, err.Error())
	}
	return d.say(input, fmt.Sprintf("Theme changed to %s", args[0]))
}

func (d *Dispatcher) clear(input string, args []string) Outcome {
	d.transcript.Clear()
	return Cleared
}

func (d *Dispatcher) exit(input string, args []string) Outcome {
	d.transcript.Append(input, "Goodbye!", false)
	d.onExit()
	return Exited
}

// fail writes an immediate line tagged as an error
func (d *Dispatcher) fail(input string, err error) Outcome {
	id := d.transcript.Append(input, err.Error(), false)
	d.transcript.Resolve(id, err.Error(), true)
	return Immediate
}

func listOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
