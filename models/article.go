package models

// Article is the readable part of an HTML page.
type Article struct {
	Title         string `json:"title"`
	Byline        string `json:"byline"`
	Content       string `json:"content"`
	TextContent   string `json:"textContent"`
	Length        int    `json:"length"`
	Excerpt       string `json:"excerpt"`
	SiteName      string `json:"siteName"`
	Lang          string `json:"lang,omitempty"`
	Language      string `json:"language,omitempty"` // detected ISO-639-1 code
	PublishedTime string `json:"publishedTime,omitempty"`
	Image         string `json:"image,omitempty"`
	Favicon       string `json:"favicon,omitempty"`
}

