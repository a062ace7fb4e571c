package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/terryberlin/carbonmenu/pkg/errors"
)

// ParseQueryTime reads an RFC 3339 timestamp from the query string, falling
// back to defaultVal when the parameter is absent.
func ParseQueryTime(r *http.Request, key string, defaultVal time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be an RFC 3339 timestamp").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
