package utils

import (
	"math"
	"strconv"
	"strings"
)

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

// ParseID parses a positive numeric path parameter.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Pagination clamps page and limit query values, defaulting limit to def.
func Pagination(pageRaw, limitRaw string, def, max int) (int, int) {
	page, _ := strconv.Atoi(pageRaw)
	limit, _ := strconv.Atoi(limitRaw)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if last := MaxPage(limit); page > last {
		page = last
	}
	return page, limit
}

// MaxPage is the highest page whose offset still fits in an int32.
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return math.MaxInt32 / limit
}
