package domain

// Post is a feed post as returned by the Moltbook read API.
type Post struct {
	ID      string
	Title   string
	Content string
	Author  string // author.name from the feed payload
}
