package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"prospector/internal/model"
)

// Elements that never carry readable article text.
const strippedSelectors = "script, style, noscript, nav, header, footer, aside, form, iframe, svg"

// Containers tried in order before falling back to the whole body.
var contentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	".post-content",
	".article-body",
	".entry-content",
	".content",
}

const minContentLength = 80

func extractReadable(doc *goquery.Document) (title, description, bodyText string) {
	title = firstNonEmpty(
		metaContent(doc, "og:title"),
		metaContent(doc, "twitter:title"),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)

	description = firstNonEmpty(
		metaContent(doc, "og:description"),
		metaContent(doc, "twitter:description"),
		metaContent(doc, "description"),
	)

	body := doc.Find("body").Clone()
	body.Find(strippedSelectors).Remove()

	for _, selector := range contentSelectors {
		text := collapseWhitespace(body.Find(selector).First().Text())
		if len(text) >= minContentLength {
			bodyText = text
			return
		}
	}

	bodyText = collapseWhitespace(body.Text())
	return
}

func extractMetadata(doc *goquery.Document) model.ContentMetadata {
	meta := model.ContentMetadata{
		Author: firstNonEmpty(
			metaContent(doc, "article:author"),
			metaContent(doc, "author"),
		),
		PublishedAt: firstNonEmpty(
			metaContent(doc, "article:published_time"),
			metaContent(doc, "date"),
			doc.Find("time[datetime]").First().AttrOr("datetime", ""),
		),
		SiteName: metaContent(doc, "og:site_name"),
		Image: firstNonEmpty(
			metaContent(doc, "og:image"),
			metaContent(doc, "twitter:image"),
		),
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Language = strings.TrimSpace(lang)
	}
	return meta
}

// metaContent reads a meta tag by Open Graph property or plain name.
func metaContent(doc *goquery.Document, key string) string {
	sel := doc.Find("meta[property='" + key + "']").First()
	if content, ok := sel.Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	sel = doc.Find("meta[name='" + key + "']").First()
	if content, ok := sel.Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

var (
	videoHosts = []string{"youtube.com", "youtu.be", "vimeo.com", "twitch.tv", "dailymotion.com"}
	videoExts  = []string{".mp4", ".webm", ".mov", ".avi"}
	imageExts  = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}
	docExts    = []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx"}
)

// classifyKind infers what a URL points at from URL patterns, MIME type, and
// DOM hints. doc may be nil for non-HTML responses.
func classifyKind(target *url.URL, contentType string, doc *goquery.Document) string {
	host := strings.ToLower(target.Hostname())
	path := strings.ToLower(target.Path)
	ct := strings.ToLower(contentType)

	for _, h := range videoHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return model.KindVideo
		}
	}
	if hasAnySuffix(path, videoExts) || strings.HasPrefix(ct, "video/") {
		return model.KindVideo
	}
	if hasAnySuffix(path, imageExts) || strings.HasPrefix(ct, "image/") {
		return model.KindImage
	}
	if hasAnySuffix(path, docExts) || strings.Contains(ct, "application/pdf") || strings.Contains(ct, "application/msword") {
		return model.KindDocument
	}

	if doc != nil {
		if doc.Find("article, [role='article']").Length() > 0 {
			return model.KindArticle
		}
		if metaContent(doc, "og:type") == "article" {
			return model.KindArticle
		}
	}
	return model.KindWebpage
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
