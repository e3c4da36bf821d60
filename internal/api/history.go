package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/site-deploy/internal/journal"
)

// HistoryHandler serves past deployment runs. It opens the journal read-only
// per request rather than holding it open, so the worker recording runs into
// the same directory never contends with the API for badger's directory lock.
type HistoryHandler struct {
	journalDir string
}

func NewHistoryHandler(journalDir string) *HistoryHandler {
	return &HistoryHandler{journalDir: journalDir}
}

// GetHistory lists recent deployment runs, newest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 200 {
		limit = 20
	}

	// No manifest means nothing was ever recorded.
	if _, err := os.Stat(filepath.Join(h.journalDir, "MANIFEST")); os.IsNotExist(err) {
		c.JSON(http.StatusOK, gin.H{"runs": []journal.Run{}})
		return
	}

	j, err := journal.OpenReadOnly(h.journalDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer j.Close()

	runs, err := j.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
