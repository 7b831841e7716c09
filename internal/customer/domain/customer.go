package domain

import "time"

type ID string

// Customer is visible to every authenticated user; records carry no owner.
type Customer struct {
	ID        ID
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the three mutable attributes; updates replace all of them.
type Fields struct {
	Name    string
	Address string
	Phone   string
}

type Page struct {
	Customers  []Customer
	Pagination Pagination
}

type Pagination struct {
	CurrentPage    int
	TotalPages     int
	TotalCustomers int64
	HasNextPage    bool
	HasPrevPage    bool
	Limit          int
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		CurrentPage:    page,
		TotalPages:     totalPages,
		TotalCustomers: total,
		HasNextPage:    page < totalPages,
		HasPrevPage:    page > 1,
		Limit:          limit,
	}
}
