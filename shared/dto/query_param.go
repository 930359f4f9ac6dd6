package dto

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"unibook/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

const maxLimit = 100

// QueryParams carries paging and ordering of list endpoints. SortBy is matched against entity columns
// by the repository, so unknown keys are dropped there rather than here.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir. Invalid values are ignored. With withDefaults the
// first page of DefaultValueLimit rows is used when paging is absent. Limits are capped at 100.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	q.Page = positive(query, constant.RequestParamPage)
	q.Limit = min(positive(query, constant.RequestParamLimit), maxLimit)
	q.SortBy = strings.TrimSpace(query.Get(constant.RequestParamSortBy))

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	default:
		q.SortDir = constant.Empty
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

func positive(query url.Values, key string) int {
	value, err := strconv.Atoi(query.Get(key))
	if err != nil || value <= 0 {
		return 0
	}

	return value
}
