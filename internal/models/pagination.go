package models

// Pagination carries the paging metadata returned by list endpoints
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPage   int `json:"total_page"`
	PerPage     int `json:"per_page"`
	TotalData   int `json:"total_data"`
}

// NewPagination computes paging metadata for a page of results.
// TotalPage is the number of pages needed to cover total rows at limit per page.
func NewPagination(page, limit, total int) Pagination {
	totalPage := 0
	if limit > 0 {
		totalPage = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPage:   totalPage,
		PerPage:     limit,
		TotalData:   total,
	}
}

// ListQuery holds the parsed query parameters of a list endpoint
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}
