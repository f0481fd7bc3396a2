package videos

type createVideoRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Thumbnail string `json:"thumbnail"`
	Video     string `json:"video"`
	Category  string `json:"category" binding:"required"`
	Duration  string `json:"duration"`
	IsActive  *bool  `json:"isActive"`
}

// updateVideoRequest is a partial update. The underscore fields name the asset
// URLs the client replaced so they can be removed after the update.
type updateVideoRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=200"`
	Thumbnail *string `json:"thumbnail"`
	Video     *string `json:"video"`
	Category  *string `json:"category"`
	Duration  *string `json:"duration"`
	IsActive  *bool   `json:"isActive"`

	OldThumbnailURL string `json:"_oldThumbnailUrl"`
	OldVideoURL     string `json:"_oldVideoUrl"`
}

type listQuery struct {
	Limit    int    `form:"limit"`
	Page     int    `form:"page"`
	Category string `form:"category"`
}
