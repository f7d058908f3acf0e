package render

import "strings"

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer for better performance and thread safety.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Bubble renders a reply for display inside a bubble of the given inner
// width. Trailing blank lines are dropped. On a render error the plain text
// is returned so a reply is never lost.
func Bubble(content string, width int, opts Options) string {
	out, err := Markdown(content, opts.WithWidth(width))
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n ")
}
