package httputil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// ParsePathInt64 extracts and parses an integer path parameter
func ParsePathInt64(r *http.Request, key string) (int64, error) {
	vars := mux.Vars(r)
	str := vars[key]
	if str == "" {
		return 0, fmt.Errorf("missing path parameter: %s", key)
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %s", key, str)
	}
	return val, nil
}

// FormValue returns a trimmed form field, with ok reporting presence
func FormValue(r *http.Request, key string) (string, bool) {
	value := strings.TrimSpace(r.FormValue(key))
	return value, value != ""
}
