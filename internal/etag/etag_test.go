package etag

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type payload struct {
	ID     int       `json:"id"`
	Title  string    `json:"title"`
	Child  nested    `json:"child"`
	Scores []float64 `json:"scores"`
}

func samplePayload() payload {
	return payload{
		ID:     7,
		Title:  "Access control review",
		Child:  nested{Name: "iso-27001", Tags: []string{"a", "b"}},
		Scores: []float64{2, 3.5},
	}
}

func TestComputeStable(t *testing.T) {
	a, err := Compute(samplePayload())
	require.NoError(t, err)
	b, err := Compute(samplePayload())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, `W/"`))
}

func TestComputeSensitiveToEveryLeaf(t *testing.T) {
	base, err := Compute(samplePayload())
	require.NoError(t, err)

	mutations := []payload{}

	p := samplePayload()
	p.ID = 8
	mutations = append(mutations, p)

	p = samplePayload()
	p.Child.Name = "GDPR"
	mutations = append(mutations, p)

	p = samplePayload()
	p.Child.Tags = []string{"b", "a"} // array order is content
	mutations = append(mutations, p)

	p = samplePayload()
	p.Scores = []float64{2, 3.6}
	mutations = append(mutations, p)

	for i, m := range mutations {
		tag, err := Compute(m)
		require.NoError(t, err)
		assert.NotEqual(t, base, tag, "mutation %d should change the fingerprint", i)
	}
}

// Key insertion order must not matter: only keys and values do.
func TestComputeIgnoresKeyOrder(t *testing.T) {
	a := map[string]any{"x": 1, "y": "z", "nested": map[string]any{"k": true}}
	b := map[string]any{"nested": map[string]any{"k": true}, "y": "z", "x": 1}

	ta, err := Compute(a)
	require.NoError(t, err)
	tb, err := Compute(b)
	require.NoError(t, err)
	assert.Equal(t, ta, tb)

	// struct and equivalent map canonicalize identically
	ts, err := Compute(struct {
		X int    `json:"x"`
		Y string `json:"y"`
	}{X: 1, Y: "z"})
	require.NoError(t, err)
	tm, err := Compute(map[string]any{"y": "z", "x": 1})
	require.NoError(t, err)
	assert.Equal(t, ts, tm)
}

func doRespond(t *testing.T, ifNoneMatch string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/compliance/stats", nil)
	if ifNoneMatch != "" {
		c.Request.Header.Set("If-None-Match", ifNoneMatch)
	}

	Respond(c, samplePayload())
	c.Writer.WriteHeaderNow() // the gin engine does this after handlers; CreateTestContext has no engine
	return w
}

func TestRespondAttachesTag(t *testing.T) {
	w := doRespond(t, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.Equal(t, "private, must-revalidate", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), "Access control review")
}

// Replaying the tag from the first response yields 304 with no body.
func TestRespondNotModifiedOnMatch(t *testing.T) {
	first := doRespond(t, "")
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	second := doRespond(t, tag)
	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
	assert.Equal(t, tag, second.Header().Get("ETag"))
}

func TestRespondStaleTagGetsFreshPayload(t *testing.T) {
	w := doRespond(t, `W/"deadbeef:12"`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}
