package model

import "time"

// News is a published news article. AuthorID is nil when the author's
// identity was removed; the article itself is preserved.
type News struct {
	ID        string
	Title     string
	Content   string
	Summary   string
	ImageURL  string
	AuthorID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewsInput carries the client-supplied fields for creating or updating an
// article. Image, when non-nil, replaces the stored image.
type NewsInput struct {
	Title   string
	Content string
	Summary string
	Image   *ImageBlob
}

// Validate checks required fields before any network side effect.
func (in *NewsInput) Validate() error {
	if in.Title == "" {
		return errRequired("title")
	}
	if in.Content == "" {
		return errRequired("content")
	}
	return nil
}
