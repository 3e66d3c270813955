package catalog

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// DescriptionHTML renders the product's markdown description to HTML.
func (p Product) DescriptionHTML() (string, error) {
	if p.Description == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(p.Description), &buf); err != nil {
		return "", fmt.Errorf("rendering description for %s: %w", p.ID, err)
	}
	return buf.String(), nil
}

// EmbedURL normalizes a YouTube watch or share URL to its embed form.
// Anything unrecognized is returned untouched.
func EmbedURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if strings.Contains(u.Hostname(), "youtu.be") {
		return "https://www.youtube.com/embed/" + strings.TrimPrefix(u.Path, "/")
	}
	if strings.Contains(u.Hostname(), "youtube.com") {
		if strings.HasPrefix(u.Path, "/watch") {
			return "https://www.youtube.com/embed/" + u.Query().Get("v")
		}
		if strings.HasPrefix(u.Path, "/embed/") {
			return raw
		}
	}
	return raw
}

// Slide is one gallery entry on the product detail page: the product's
// images in order, then its video if present.
type Slide struct {
	Type string `json:"type"` // "image" or "video"
	Src  string `json:"src"`
}

// Slides builds the gallery slides for the product.
func (p Product) Slides() []Slide {
	var slides []Slide
	for _, img := range p.Images {
		slides = append(slides, Slide{Type: "image", Src: img})
	}
	if p.Video != "" {
		slides = append(slides, Slide{Type: "video", Src: EmbedURL(p.Video)})
	}
	return slides
}
