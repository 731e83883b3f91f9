package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Minutes is a task duration expressed in whole minutes. The column is
// a native Postgres INTERVAL; conversion happens here at the storage
// boundary in both directions.
type Minutes int

// Value writes the interval literal Postgres expects.
func (m Minutes) Value() (driver.Value, error) {
	return fmt.Sprintf("%d minutes", int(m)), nil
}

// Scan parses the interval text Postgres returns. The default interval
// output style is "[D day[s] ]HH:MM:SS[.ffffff]"; "N mins"/"N minutes"
// forms are accepted too. Sub-minute remainders truncate.
func (m *Minutes) Scan(value interface{}) error {
	if value == nil {
		*m = 0
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		// some drivers hand back microseconds
		*m = Minutes(v / 60_000_000)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Minutes", value)
	}
	mins, err := parseIntervalMinutes(s)
	if err != nil {
		return err
	}
	*m = Minutes(mins)
	return nil
}

func parseIntervalMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	total := 0
	fields := strings.Fields(s)
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.Contains(f, ":") {
			hms, err := parseClockMinutes(f)
			if err != nil {
				return 0, err
			}
			total += hms
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q", s)
		}
		if i+1 >= len(fields) {
			return 0, fmt.Errorf("invalid interval %q", s)
		}
		i++
		switch unit := strings.TrimSuffix(fields[i], "s"); unit {
		case "day":
			total += n * 24 * 60
		case "hour":
			total += n * 60
		case "min", "minute", "mon":
			if unit == "mon" {
				return 0, fmt.Errorf("month-based interval %q not supported", s)
			}
			total += n
		case "sec", "second":
			// truncated
		default:
			return 0, fmt.Errorf("invalid interval unit in %q", s)
		}
	}
	return total, nil
}

func parseClockMinutes(f string) (int, error) {
	neg := strings.HasPrefix(f, "-")
	f = strings.TrimPrefix(f, "-")
	parts := strings.Split(f, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid interval clock %q", f)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid interval clock %q", f)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid interval clock %q", f)
	}
	total := h*60 + m
	if neg {
		total = -total
	}
	return total, nil
}

// GormDataType keeps gorm from guessing a numeric column.
func (Minutes) GormDataType() string { return "interval" }
