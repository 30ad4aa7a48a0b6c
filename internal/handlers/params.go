package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
)

// pathID parses the {name} path segment as a positive id
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid %s: %s", name, raw)
	}
	return id, nil
}

// queryParams turns optional query string values into typed filter fields.
// The first parse failure is kept in err.
type queryParams struct {
	values url.Values
	err    error
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) String(key string) *string {
	v := strings.TrimSpace(q.values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func (q *queryParams) Int64(key string) *int64 {
	v := q.String(key)
	if v == nil {
		return nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		q.fail(apperror.BadRequest("%s must be a number", key))
		return nil
	}
	return &n
}

func (q *queryParams) Bool(key string) *bool {
	v := q.String(key)
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		q.fail(apperror.BadRequest("%s must be true or false", key))
		return nil
	}
	return &b
}

func (q *queryParams) Date(key string) *models.Date {
	v := q.String(key)
	if v == nil {
		return nil
	}
	d, err := models.ParseDate(*v)
	if err != nil {
		q.fail(apperror.BadRequest("%s must be a date like 20240305", key))
		return nil
	}
	return &d
}

// List collects repeated and comma separated values
func (q *queryParams) List(key string) []string {
	var out []string
	for _, raw := range q.values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (q *queryParams) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}
