package store

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"cstsite/internal/models"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

func scanNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil, nil
	}
	parsed, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func repliesToJSON(replies []models.Reply) (any, error) {
	if len(replies) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(replies)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func repliesFromJSON(raw sql.NullString) ([]models.Reply, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil, nil
	}
	var replies []models.Reply
	if err := json.Unmarshal([]byte(raw.String), &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

func tagsToJSON(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func tagsFromJSON(raw sql.NullString) ([]string, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// likePattern builds a case-insensitive substring LIKE pattern, escaping
// the LIKE metacharacters in the query.
func likePattern(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(query) + "%"
}

// placeholders renders "?, ?, ..." for one IN clause.
func placeholders(count int) string {
	out := make([]string, count)
	for i := range out {
		out[i] = "?"
	}
	return strings.Join(out, ", ")
}

// DailyCount is one day's submission count, used by the dashboard.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}
