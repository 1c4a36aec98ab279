package domain

// Item is a single banner shown by the carousel
type Item struct {
	Title string
	Body  string // markdown
	Color string // lipgloss color, e.g. "99" or "#ff5f87"
}

// Position is a snapshot of where the carousel is resting
type Position struct {
	Index int
	Count int
}
