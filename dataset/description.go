package dataset

import (
	"regexp"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

// Pre-compiled regexes to avoid recompiling on every description.
var (
	htmlTagRe        = regexp.MustCompile(`(?i)</?\s*[a-z][a-z0-9]*[^>]*>|&[a-z]+;|&#\d+;`)
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
)

var (
	descConverterOnce sync.Once
	descConverter     *md.Converter
)

func converter() *md.Converter {
	descConverterOnce.Do(func() {
		descConverter = md.NewConverter("", true, nil)
		descConverter.Use(plugin.GitHubFlavored())
	})
	return descConverter
}

// CleanDescription strips HTML markup from a portal description. Portal
// editors paste rich text, so descriptions arrive as HTML fragments more
// often than not. The result is markdown-flavoured plain text with
// collapsed blank lines; plain-text inputs pass through untouched.
func CleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !htmlTagRe.MatchString(s) {
		return s
	}

	cleaned := scriptRe.ReplaceAllString(s, "")
	cleaned = styleRe.ReplaceAllString(cleaned, "")

	out, err := converter().ConvertString(cleaned)
	if err != nil {
		return stripTags(cleaned)
	}
	return tidyText(out)
}

// stripTags is the fallback when markdown conversion fails: drop tags,
// keep text content.
func stripTags(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return tidyText(htmlTagRe.ReplaceAllString(s, " "))
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tidyText(sb.String())
}

func tidyText(s string) string {
	s = excessiveLinesRe.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
