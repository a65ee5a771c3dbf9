// Package etag fingerprints response payloads and short-circuits delivery
// when the caller already holds the current fingerprint.
package etag

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Compute returns a weak ETag over a canonical serialization of v: compact
// JSON with object keys sorted. The value is round-tripped through an
// untyped form first so that struct field order never leaks into the hash;
// only values do. Identical content always produces the identical tag.
func Compute(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	payload, err := json.Marshal(generic) // map keys marshal sorted
	if err != nil {
		return "", err
	}

	sum := sha1.Sum(payload)
	return fmt.Sprintf(`W/"%x:%d"`, sum, len(payload)), nil
}

// Respond compares the client's If-None-Match against the payload's
// fingerprint: on a match it answers 304 with no body, otherwise it
// attaches the new tag and writes the payload as JSON.
func Respond(c *gin.Context, data any) {
	tag, err := Compute(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fingerprint response"})
		return
	}

	c.Header("ETag", tag)
	if strings.TrimSpace(c.GetHeader("If-None-Match")) == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Cache-Control", "private, must-revalidate")
	c.JSON(http.StatusOK, data)
}
