package domain

// Post represents a single piece of generated content
type Post struct {
	Title string
	Body  string
}

// Text returns the searchable text of the post (title and body joined by a space)
func (p Post) Text() string {
	return p.Title + " " + p.Body
}
