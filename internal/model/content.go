package model

// ContentKind classifies what a fetched URL points at.
const (
	KindArticle  = "article"
	KindVideo    = "video"
	KindImage    = "image"
	KindDocument = "document"
	KindWebpage  = "webpage"
)

type ContentMetadata struct {
	Author      string
	PublishedAt string
	SiteName    string
	Image       string
	Language    string
}

// ExtractedContent is the terminal record of one fetch attempt. When Error is
// set every other optional field is empty and the record is not retried.
type ExtractedContent struct {
	URL         string
	Title       string
	Description string
	BodyText    string
	ContentKind string
	Metadata    ContentMetadata
	Error       string
}
