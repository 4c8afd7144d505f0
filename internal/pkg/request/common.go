package request

// DayRequest is a common struct for endpoints scoped to one trip day.
type DayRequest struct {
	Day int `uri:"day" binding:"required,min=1"`
}

// DayItemRequest addresses one entry (place, checklist) within a trip day.
type DayItemRequest struct {
	Day int    `uri:"day" binding:"required,min=1"`
	ID  string `uri:"id" binding:"required"`
}

// ListParams carries pagination query parameters.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}
