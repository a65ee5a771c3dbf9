package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/config"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/database"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/etag"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/resolver"

	"github.com/gin-gonic/gin"
)

var (
	cfg    *config.Config
	engine *resolver.Engine
)

// Init wires the handlers to the shared DB connection. Must run after
// database.Init.
func Init(c *config.Config) {
	cfg = c
	store := database.NewStore(database.DB, c.ThreatFramework)
	engine = resolver.New(store, resolver.SuggestOptions{
		MinScore:   c.SuggestMinScore,
		MaxResults: c.SuggestMaxResults,
	})
}

func GetStats(c *gin.Context) {
	counts, err := engine.FrameworkCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load framework stats"})
		return
	}
	etag.Respond(c, counts)
}

func GetRequirements(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))

	rows, err := engine.ListRequirements(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve requirements"})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "framework not found or no requirements"})
		return
	}
	etag.Respond(c, rows)
}

func GetRequirementMappings(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	reqID, err := strconv.Atoi(c.Param("req_id"))
	if err != nil || reqID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid requirement id"})
		return
	}

	detail, err := engine.RequirementDetail(code, uint(reqID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve requirement"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "requirement not found"})
		return
	}
	etag.Respond(c, detail)
}
