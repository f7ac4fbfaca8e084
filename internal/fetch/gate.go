package fetch

import (
	"mime"
	"net/http"
	"strings"
)

// IsTextual reports whether the response declares an HTML document or any
// other text payload. Pages are saved verbatim, so this header check is the
// only filter between a 200 response and the disk. A missing or malformed
// Content-Type rejects.
func IsTextual(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return false
	}

	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}

	return mt == "text/html" ||
		mt == "application/xhtml+xml" ||
		strings.HasPrefix(mt, "text/")
}
