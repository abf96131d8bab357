package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies a cached route response.
type Key struct {
	// Resource is the route resource name (e.g. "live", "table").
	Resource string

	// Params are the upstream parameters the response depends on
	// (e.g. {"team": "67", "status": "SCHEDULED"}).
	Params map[string]string
}

// String generates a deterministic cache key string.
// Format: vault:resource:param1=val1:param2=val2
//
// Example:
//
//	vault:upcoming:status=SCHEDULED:team=67
func (k Key) String() string {
	parts := []string{"vault"}

	resource := strings.Trim(k.Resource, ":/ ")
	if resource != "" {
		parts = append(parts, resource)
	}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params[name]))
		}
	}

	return strings.Join(parts, ":")
}
