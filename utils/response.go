// utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

// Standard response envelope shared by every handler
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func RespondWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Success: true, Message: message, Data: data})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Success: false, Message: message})
}

// RespondPaginated clamps page/limit to the same bounds the store layer
// queries with, so a bad query string can never reach the envelope math.
func RespondPaginated(c *gin.Context, code int, data interface{}, page, limit int, total int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(code, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
			HasNextPage:  page < totalPages,
			HasPrevPage:  page > 1,
		},
	})
}
