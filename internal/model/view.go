package model

// FeedViewType selects how a source is presented (articles, pictures, ...).
type FeedViewType int

const (
	ViewArticles FeedViewType = iota
	ViewSocialMedia
	ViewPictures
	ViewVideos
	ViewAudios
	ViewNotifications
)

func (v FeedViewType) Valid() bool {
	return v >= ViewArticles && v <= ViewNotifications
}
