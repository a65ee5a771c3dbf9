package handlers

import (
	"log"
	"net/http"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/database"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/ingest"

	"github.com/gin-gonic/gin"
)

// ReloadSeed re-runs CSV ingestion, replacing the catalog content. The
// route is admin-only; see the router.
func ReloadSeed(c *gin.Context) {
	if cfg.RequirementsCSV == "" && cfg.MappingsCSV == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no CSV paths configured"})
		return
	}

	if err := ingest.Run(database.DB, cfg); err != nil {
		log.Printf("reseed failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "seed failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "seeded"})
}
