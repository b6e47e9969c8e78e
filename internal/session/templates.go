package session

// Template is shown to the user as a starting point. Templates are display
// only; nothing feeds them into generation.
type Template struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var templates = []Template{
	{Name: "Blog Post", Description: "Structured template for a blog post."},
	{Name: "Social Media Post", Description: "Template for Instagram/Facebook posts."},
	{Name: "Report", Description: "A simple report template with sections."},
}

func Templates() []Template {
	return append([]Template(nil), templates...)
}
