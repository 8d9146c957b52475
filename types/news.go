package types

// NewsItem is a single headline scraped from an RSS feed
type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Category    string `json:"category,omitempty"`
}

// RedditPost is a single link post from a subreddit listing
type RedditPost struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subreddit   string `json:"subreddit"`
	Score       int    `json:"score"`
	NumComments int    `json:"numComments"`
	URL         string `json:"url"`
	Permalink   string `json:"permalink"`
	Author      string `json:"author"`
	CreatedAt   string `json:"createdAt"`
}

// HackerNewsItem is a single story from the Hacker News API
type HackerNewsItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Type        string `json:"type"`
}
