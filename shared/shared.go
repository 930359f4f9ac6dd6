package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"unibook/shared/cache"
	"unibook/shared/constant"
	"unibook/shared/dto"

	"github.com/rs/zerolog/log"
)

// OptionalBool parses a tri-state query flag: nil when absent or unparsable.
func OptionalBool(value string) *bool {
	if value == constant.Empty {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("value", value).Msg("ignoring non-boolean flag")

		return nil
	}

	return &parsed
}

// TotalPages is the number of pages of size limit needed for total rows, never less than one.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 1
	}

	return (total + limit - 1) / limit
}

// ChangedColumns maps the non-zero db-tagged fields of patch to their column names and stamps
// modified_at and modified_by.
func ChangedColumns(patch any, actor string, now time.Time) map[string]any {
	value := reflect.ValueOf(patch)

	columns := map[string]any{
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	for _, field := range reflect.VisibleFields(value.Type()) {
		column := field.Tag.Get("db")
		if !field.IsExported() || column == constant.Empty || column == "-" {
			continue
		}

		if fieldValue := value.FieldByIndex(field.Index); !fieldValue.IsZero() {
			columns[column] = fieldValue.Interface()
		}
	}

	return columns
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a cache prefix with the identifying parts of an entry.
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a stable key for a list query from its paging and filter arguments.
func BuildCacheKeyWithQuery(prefix string, req dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	sort.Strings(names)

	var builder strings.Builder

	fmt.Fprintf(&builder, "%d|%d|%s|%s|%s", req.Page, req.Limit, req.SortBy, req.SortDir, where)

	for _, name := range names {
		fmt.Fprintf(&builder, "|%s=%v", name, args[name])
	}

	sum := sha256.Sum256([]byte(builder.String()))

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// InvalidateCaches drops every cached entry stored under the prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
