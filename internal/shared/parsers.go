package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	sizePattern     = regexp.MustCompile(`(?i)^(\d+)\s*(K|M|G|T)?B?$`)
	durationPattern = regexp.MustCompile(`^(\d+)\s*(ms|d|h|m|s)$`)
)

// ParseSize parses a size string (e.g., "100G", "500MB") into bytes.
func ParseSize(sizeStr string) (int64, error) {
	matches := sizePattern.FindStringSubmatch(strings.TrimSpace(sizeStr))

	if len(matches) < 2 {
		return 0, fmt.Errorf("invalid size format: %s", sizeStr)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size number: %s", matches[1])
	}

	unit := ""
	if len(matches) > 2 {
		unit = strings.ToUpper(matches[2])
	}

	switch unit {
	case "T":
		return value * (1 << 40), nil
	case "G":
		return value * (1 << 30), nil
	case "M":
		return value * (1 << 20), nil
	case "K":
		return value * (1 << 10), nil
	default:
		return value, nil
	}
}

// ParseDuration parses a duration string with support for days and
// milliseconds (e.g., "30d", "24h", "3500ms") into a time.Duration.
// A special value of "0" is allowed and returns 0 duration.
func ParseDuration(durationStr string) (time.Duration, error) {
	trimmedStr := strings.TrimSpace(durationStr)
	if trimmedStr == "0" {
		return 0, nil
	}

	matches := durationPattern.FindStringSubmatch(trimmedStr)
	if len(matches) < 3 {
		return 0, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", matches[1])
	}

	switch matches[2] {
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "s":
		return time.Duration(value) * time.Second, nil
	case "ms":
		return time.Duration(value) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("unsupported duration unit: %s", matches[2])
	}
}
