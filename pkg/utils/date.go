package utils

import "time"

// ParseDate interpreta YYYY-MM-DD no fuso local. String vazia retorna nil.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(time.DateOnly, dateStr, time.Local)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
