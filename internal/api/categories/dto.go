package categories

type createCategoryRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

type updateCategoryRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type listQuery struct {
	Limit int `form:"limit"`
	Page  int `form:"page"`
}
