package services

import (
	"net/url"
	"strconv"
	"strings"
)

// queryBuilder appends parameters in the order they are added, skipping
// unset values. url.Values is not used because Encode sorts keys, and the
// backend contract fixes the order per resource.
type queryBuilder struct {
	parts []string
}

// add appends key=value when value is non-empty.
func (q *queryBuilder) add(key, value string) {
	if value == "" {
		return
	}
	q.parts = append(q.parts, encodeComponent(key)+"="+encodeComponent(value))
}

// addInt appends key=value when value is non-zero.
func (q *queryBuilder) addInt(key string, value int) {
	if value == 0 {
		return
	}
	q.add(key, strconv.Itoa(value))
}

// addID appends key=id when id is set.
func (q *queryBuilder) addID(key string, id *int64) {
	if id == nil {
		return
	}
	q.add(key, strconv.FormatInt(*id, 10))
}

// addList appends the values comma-joined when there is at least one.
func (q *queryBuilder) addList(key string, values []string) {
	if len(values) == 0 {
		return
	}
	q.add(key, strings.Join(values, ","))
}

// encode returns the query string without a leading "?", or "" when nothing
// was added.
func (q *queryBuilder) encode() string {
	return strings.Join(q.parts, "&")
}

// encodeComponent escapes like encodeURIComponent: spaces become %20, not +.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// idPath joins a collection path and an id.
func idPath(collection string, id int64, suffix ...string) string {
	p := collection + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
