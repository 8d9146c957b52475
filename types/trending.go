package types

// TrendingTopic is a generic trending entry (used for the twitter slot)
type TrendingTopic struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Volume   *int   `json:"volume,omitempty"`
	URL      string `json:"url,omitempty"`
}

// TrendingRepo is a repository trending on GitHub
type TrendingRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	URL         string `json:"url"`
}

// TrendingSubreddit is a popular subreddit
type TrendingSubreddit struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
	Description string `json:"description"`
}

// TrendingStory is a top Hacker News story in the trending view
type TrendingStory struct {
	Title    string `json:"title"`
	Score    int    `json:"score"`
	Comments int    `json:"comments"`
	URL      string `json:"url"`
}

// SocialTrending is the payload of the trending endpoint.
// Each list is empty (never null) when its source failed
type SocialTrending struct {
	Twitter    []TrendingTopic     `json:"twitter"`
	GitHub     []TrendingRepo      `json:"github"`
	Reddit     []TrendingSubreddit `json:"reddit"`
	HackerNews []TrendingStory     `json:"hackernews"`
}
