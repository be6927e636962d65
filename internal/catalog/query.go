package catalog

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter carries the optional search parameters exactly as they arrive on the
// query string. Empty strings mean "not supplied".
type Filter struct {
	Title           string
	PublishedBefore string // YYYY-MM-DD, inclusive upper bound
	PublishedAfter  string // YYYY-MM-DD, inclusive lower bound
}

// IsZero reports whether no filter value was supplied.
func (f Filter) IsZero() bool {
	return f.Title == "" && f.PublishedBefore == "" && f.PublishedAfter == ""
}

// BuildQuery translates a Filter into a Mongo filter document. Every clause
// is optional and absent values are omitted entirely; the clauses compose
// with AND semantics. An empty Filter yields the unfiltered query.
// Malformed date values are treated as absent.
func BuildQuery(f Filter) bson.D {
	q := bson.D{}
	if f.Title != "" {
		q = append(q, bson.E{Key: "title", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(f.Title),
			Options: "i",
		}})
	}
	bounds := bson.D{}
	if t, ok := parseDate(f.PublishedBefore); ok {
		bounds = append(bounds, bson.E{Key: "$lte", Value: t})
	}
	if t, ok := parseDate(f.PublishedAfter); ok {
		bounds = append(bounds, bson.E{Key: "$gte", Value: t})
	}
	if len(bounds) > 0 {
		q = append(q, bson.E{Key: "publish_date", Value: bounds})
	}
	return q
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
