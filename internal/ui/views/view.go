package views

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"postboard/internal/config"
	"postboard/internal/domain"
	"postboard/internal/posts"
)

// Renderer draws the sections of the board. Every section looks the store up
// from the context it is given.
type Renderer struct {
	styles   *Styles
	settings config.UISettings
}

// NewRenderer creates a new renderer
func NewRenderer(settings config.UISettings) *Renderer {
	return &Renderer{
		styles:   NewStyles(),
		settings: settings,
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// LinesPerPost returns how many terminal lines one post occupies
func (r *Renderer) LinesPerPost() int {
	if r.settings.ShowBodies {
		return 2
	}
	return 1
}

// Header renders the title and the visible/total counts
func (r *Renderer) Header(ctx context.Context) string {
	store := posts.Use(ctx)

	title := r.settings.Title
	if title == "" {
		title = "postboard"
	}

	visible := len(store.VisiblePosts())
	total := store.Len()
	var count string
	if store.Query() == "" {
		count = fmt.Sprintf("%d posts", total)
	} else {
		count = fmt.Sprintf("%d of %d posts", visible, total)
	}

	return r.styles.Title.Render(title) + "  " + r.styles.Count.Render(count)
}

// SearchBar renders the search input while it is focused, otherwise the
// active query if there is one
func (r *Renderer) SearchBar(ctx context.Context, inputView string, focused bool) string {
	if focused {
		return inputView
	}
	query := posts.Use(ctx).Query()
	if query == "" {
		return ""
	}
	return r.styles.Filter.Render(fmt.Sprintf("Search: %s (esc to clear)", query))
}

// PostList renders at most height lines of visible posts starting at offset
func (r *Renderer) PostList(ctx context.Context, height, offset int) string {
	store := posts.Use(ctx)
	visible := store.VisiblePosts()
	query := store.Query()

	if len(visible) == 0 {
		if store.Len() == 0 {
			return r.styles.Empty.Render("No posts. Press a to add one.")
		}
		return r.styles.Empty.Render(fmt.Sprintf("No posts match %q.", query))
	}

	perPage := height / r.LinesPerPost()
	if perPage < 1 {
		perPage = 1
	}
	offset = ClampOffset(offset, len(visible), perPage)
	end := offset + perPage
	if end > len(visible) {
		end = len(visible)
	}

	var b strings.Builder
	for _, post := range visible[offset:end] {
		b.WriteString(r.styles.PostTitle.Render(r.highlight(post.Title, query)))
		b.WriteString("\n")
		if r.settings.ShowBodies {
			b.WriteString(r.styles.PostBody.Render(r.highlight(post.Body, query)))
			b.WriteString("\n")
		}
	}

	if offset > 0 || end < len(visible) {
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("%d-%d of %d", offset+1, end, len(visible))))
	}

	return strings.TrimRight(b.String(), "\n")
}

// Status renders the status line
func (r *Renderer) Status(msg string, isError bool) string {
	if msg == "" {
		return ""
	}
	if isError {
		return r.styles.StatusError.Render(msg)
	}
	return r.styles.StatusSuccess.Render(msg)
}

// highlight marks every case-insensitive occurrence of query in text.
// Matching walks text rune by rune so a marked span never splits a rune.
func (r *Renderer) highlight(text, query string) string {
	if query == "" || !r.settings.HighlightMatches {
		return text
	}
	needle := []rune(strings.ToLower(query))

	var b strings.Builder
	plainFrom := 0
	for i := 0; i < len(text); {
		if n := foldedPrefixLen(text[i:], needle); n > 0 {
			b.WriteString(text[plainFrom:i])
			b.WriteString(r.styles.Highlight.Render(text[i : i+n]))
			i += n
			plainFrom = i
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	b.WriteString(text[plainFrom:])
	return b.String()
}

// foldedPrefixLen returns how many bytes of s spell needle once each rune is
// lower-cased, or 0 when s does not start with needle
func foldedPrefixLen(s string, needle []rune) int {
	n := 0
	for _, want := range needle {
		if n >= len(s) {
			return 0
		}
		got, size := utf8.DecodeRuneInString(s[n:])
		if unicode.ToLower(got) != want {
			return 0
		}
		n += size
	}
	return n
}

// ClampOffset keeps a scroll offset within [0, total-perPage]
func ClampOffset(offset, total, perPage int) int {
	maxOffset := total - perPage
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// PlainText formats posts without styling, one blank line between posts
func PlainText(items []domain.Post) string {
	var b strings.Builder
	for i, post := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n    %s\n", post.Title, post.Body)
	}
	return b.String()
}
