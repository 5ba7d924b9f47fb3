package digest

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"techupnext/internal/domain"
)

const digestTemplate = `<html>
<head>
<style>
    body {
        font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif;
        background-color: #f9f9f9;
        color: #333;
        margin: 0;
        padding: 0;
    }
    .container {
        width: 90%;
        max-width: 650px;
        margin: 30px auto;
        background-color: #ffffff;
        padding: 25px 30px;
        border-radius: 8px;
        box-shadow: 0 2px 8px rgba(0,0,0,0.1);
    }
    h2 {
        text-align: center;
        color: #1a1a1a;
        font-weight: 600;
    }
    h3 {
        border-bottom: 1px solid #e0e0e0;
        padding-bottom: 5px;
        color: #555;
        margin-top: 25px;
        font-weight: 500;
    }
    h4 {
        color: #222;
        margin-bottom: 5px;
        font-weight: 500;
    }
    p {
        line-height: 1.5;
        color: #555;
        margin-top: 0;
    }
    a {
        color: #1a73e8;
        text-decoration: none;
    }
    .news-item {
        margin-bottom: 20px;
    }
    .footer {
        text-align: center;
        font-size: 12px;
        color: #999;
        margin-top: 25px;
    }
</style>
</head>
<body>
<div class="container">
    <h2>Tech-UpNext Daily Digest</h2>
{{- range .Sections}}
    <h3>{{.Header}}</h3>
{{- range .Items}}
    <div class="news-item">
        <h4>{{.Title}}</h4>
        <p>{{.Summary}}</p>
        <a href="{{.Link}}">Read More</a>
    </div>
{{- end}}
{{- end}}
    <div class="footer">
        You are receiving this email because you subscribed to Tech-UpNext.<br>
        &copy; 2025 Tech-UpNext. All rights reserved.
    </div>
</div>
</body>
</html>
`

type section struct {
	Header string
	Items  []domain.NewsItem
}

// Composer renders the per-subscriber digest document.
type Composer struct {
	tmpl  *template.Template
	title cases.Caser
}

func NewComposer() *Composer {
	return &Composer{
		tmpl:  template.Must(template.New("digest").Parse(digestTemplate)),
		title: cases.Title(language.English),
	}
}

// Compose groups items by lowercase category and renders one HTML document.
// Section order follows categoryOrder; items keep their given order inside
// a section. Output is deterministic for a given input. An empty item set
// yields ("", nil): nothing to send, not an error.
func (c *Composer) Compose(items []domain.NewsItem, categoryOrder []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	grouped := make(map[string][]domain.NewsItem, len(categoryOrder))
	for _, item := range items {
		key := item.NormalizedCategory()
		grouped[key] = append(grouped[key], item)
	}

	sections := make([]section, 0, len(categoryOrder))
	seen := make(map[string]bool, len(categoryOrder))
	for _, category := range categoryOrder {
		key := strings.ToLower(strings.TrimSpace(category))
		if seen[key] || len(grouped[key]) == 0 {
			continue
		}
		seen[key] = true
		sections = append(sections, section{
			Header: c.title.String(key),
			Items:  grouped[key],
		})
	}

	// Categories the caller did not order come last, in item order.
	for _, item := range items {
		key := item.NormalizedCategory()
		if seen[key] {
			continue
		}
		seen[key] = true
		sections = append(sections, section{
			Header: c.title.String(key),
			Items:  grouped[key],
		})
	}

	var sb strings.Builder
	if err := c.tmpl.Execute(&sb, struct{ Sections []section }{sections}); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}

	return sb.String(), nil
}
