package api

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CustomerFields struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Pagination struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalCustomers int64 `json:"totalCustomers"`
	HasNextPage    bool  `json:"hasNextPage"`
	HasPrevPage    bool  `json:"hasPrevPage"`
	Limit          int   `json:"limit"`
}

type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	Pagination Pagination `json:"pagination"`
}

type ListParams struct {
	Page   int
	Limit  int
	Search string
}
