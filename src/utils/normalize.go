package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeExpiry converts the expiry formats seen in alert text ("6/6",
// "06/06", "6/6/25", "6/6/2025", "20250606") to YYYYMMDD. When the year is
// omitted it defaults to the current year, rolling to the next year if the
// date has already passed relative to now.
func NormalizeExpiry(raw string, now time.Time) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "N/A") {
		return "", fmt.Errorf("NormalizeExpiry: missing expiry")
	}

	if len(s) == 8 && !strings.Contains(s, "/") {
		if _, err := time.Parse("20060102", s); err != nil {
			return "", fmt.Errorf("NormalizeExpiry: invalid expiry %q: %w", raw, err)
		}
		return s, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("NormalizeExpiry: invalid expiry %q", raw)
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("NormalizeExpiry: invalid month in %q", raw)
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("NormalizeExpiry: invalid day in %q", raw)
	}

	var year int
	if len(parts) == 3 {
		year, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return "", fmt.Errorf("NormalizeExpiry: invalid year in %q", raw)
		}

		if year < 100 {
			year += 2000
		}
	} else {
		year = now.Year()

		expiry := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if expiry.Before(today) {
			year++
		}
	}

	return fmt.Sprintf("%04d%02d%02d", year, month, day), nil
}

// ParseStrike parses a strike price field, tolerating a leading dollar sign.
func ParseStrike(raw string) (float64, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, fmt.Errorf("ParseStrike: missing strike")
	}

	strike, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("ParseStrike: invalid strike %q: %w", raw, err)
	}

	if strike <= 0 {
		return 0, fmt.Errorf("ParseStrike: strike must be positive, got %v", strike)
	}

	return strike, nil
}

// ParsePrice parses an optional price field ("$1.87", "1.87"). Returns nil
// when the field is absent.
func ParsePrice(raw string) (*float64, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if s == "" || strings.EqualFold(s, "N/A") {
		return nil, nil
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("ParsePrice: invalid price %q: %w", raw, err)
	}

	if price <= 0 {
		return nil, fmt.Errorf("ParsePrice: price must be positive, got %v", price)
	}

	return &price, nil
}

// NormalizeOptionType maps the completion service's contract type field
// ("call", "put", "C", "P") to the single-letter form.
func NormalizeOptionType(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "C", "CALL", "CALLS":
		return "C", nil
	case "P", "PUT", "PUTS":
		return "P", nil
	}

	return "", fmt.Errorf("NormalizeOptionType: invalid contract type %q", raw)
}
