package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"bannerloop/internal/domain"
	"bannerloop/internal/log"
	"bannerloop/internal/loop"
)

type cardKey struct {
	index  int
	width  int
	height int
}

// CardRenderer draws banner cards and the endless strip they sit on.
// Cards are rendered once per size and cached.
type CardRenderer struct {
	items        []domain.Item
	styles       *Styles
	glamourStyle string

	cards    map[cardKey][]string
	markdown map[int]*glamour.TermRenderer // by wrap width
}

// NewCardRenderer creates a renderer for items. glamourStyle is one of
// glamour's standard style names ("dark", "light", "notty", ...).
func NewCardRenderer(items []domain.Item, styles *Styles, glamourStyle string) *CardRenderer {
	if glamourStyle == "" {
		glamourStyle = "dark"
	}
	return &CardRenderer{
		items:        items,
		styles:       styles,
		glamourStyle: glamourStyle,
		cards:        make(map[cardKey][]string),
		markdown:     make(map[int]*glamour.TermRenderer),
	}
}

// Card returns the lines of item i, exactly height lines of exactly width cells
func (r *CardRenderer) Card(i, width, height int) []string {
	key := cardKey{index: i, width: width, height: height}
	if lines, ok := r.cards[key]; ok {
		return lines
	}
	lines := r.renderCard(r.items[i], width, height)
	r.cards[key] = lines
	return lines
}

// Strip renders viewWidth columns of the looping card row, centred on the
// card at offset. Item k of the unbounded row shows item k mod N.
func (r *CardRenderer) Strip(offset float64, viewWidth, extent, spacing, height int) string {
	n := len(r.items)
	if n == 0 || viewWidth <= 0 || extent <= 0 || height <= 0 {
		return ""
	}
	w := extent + spacing
	left := int(math.Round(offset)) - (viewWidth-extent)/2
	first := floorDiv(left, w)
	skip := left - first*w
	gap := strings.Repeat(" ", spacing)

	rows := make([]strings.Builder, height)
	for k := first; k*w < left+viewWidth; k++ {
		lines := r.Card(loop.Mod(k, n), extent, height)
		for i := range rows {
			rows[i].WriteString(lines[i])
			rows[i].WriteString(gap)
		}
	}

	out := make([]string, height)
	for i := range rows {
		out[i] = ansi.Cut(rows[i].String(), skip, skip+viewWidth)
	}
	return strings.Join(out, "\n")
}

func (r *CardRenderer) renderCard(it domain.Item, width, height int) []string {
	inner := max(width-4, 1) // border and padding
	innerHeight := max(height-2, 1)
	color := itemColor(it.Color)

	content := []string{r.styles.CardTitle.Foreground(color).Render(ansi.Truncate(it.Title, inner, "…"))}
	if it.Body != "" {
		content = append(content, "")
		content = append(content, r.renderMarkdown(it.Body, inner)...)
	}
	if len(content) > innerHeight {
		content = content[:innerHeight]
	}
	for i, l := range content {
		content[i] = ansi.Truncate(l, inner, "")
	}

	box := r.styles.Card.
		BorderForeground(color).
		Width(width - 2).
		Height(innerHeight).
		Render(strings.Join(content, "\n"))
	return fitBlock(strings.Split(box, "\n"), width, height)
}

func (r *CardRenderer) renderMarkdown(body string, width int) []string {
	md, ok := r.markdown[width]
	if !ok {
		var err error
		md, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.glamourStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			log.Warn("markdown renderer unavailable", "error", err)
			md = nil
		}
		r.markdown[width] = md
	}
	if md == nil {
		return strings.Split(ansi.Wrap(body, width, ""), "\n")
	}
	out, err := md.Render(body)
	if err != nil {
		log.Warn("failed to render item body", "error", err)
		return strings.Split(ansi.Wrap(body, width, ""), "\n")
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

// fitBlock pads or cuts lines to exactly width cells and height rows
func fitBlock(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		var l string
		if i < len(lines) {
			l = ansi.Truncate(lines[i], width, "")
		}
		if pad := width - ansi.StringWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		out[i] = l
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
