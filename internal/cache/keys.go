package cache

import (
	"fmt"
	"strings"
	"valorant-sync/internal/constants"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ListingKey bumps its version whenever the cached listing shape changes.
func ListingKey(name, tag string, limit int) string {
	return fmt.Sprintf("dbmatches:v2:%s:%s:limit=%d", normalize(name), normalize(tag), limit)
}

// ListingKeys covers every limit the listing endpoint can cache under.
func ListingKeys(name, tag string) []string {
	keys := make([]string, 0, constants.MaxMatchLimit)
	for n := 1; n <= constants.MaxMatchLimit; n++ {
		keys = append(keys, ListingKey(name, tag, n))
	}
	return keys
}

func OverallKey(region, name, tag string) string {
	return fmt.Sprintf("overall:v1:%s:%s:%s", normalize(region), normalize(name), normalize(tag))
}
