package mysql

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func placeholders(n int) string {
	return strings.TrimRight(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	res := make([]any, len(values))
	for i, v := range values {
		res[i] = v
	}
	return res
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func decodePartNumbers(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("decode part_number: %w", err)
	}
	return parts, nil
}
