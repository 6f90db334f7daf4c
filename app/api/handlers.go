package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newsintel/app/agent"
	"github.com/lysyi3m/newsintel/app/feed"
)

func NewHandler(store *agent.Store, sourceCache *feed.SourceCache, updater UpdaterInterface) *Handler {
	return &Handler{
		store:       store,
		sourceCache: sourceCache,
		updater:     updater,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.sourceCache.GetSourceCount(),
	}

	runCount, lastRunAt, lastErr := h.store.GetStats()
	health["runs"] = runCount
	if !lastRunAt.IsZero() {
		health["last_run_at"] = lastRunAt.Format(time.RFC3339)
	}
	if lastErr != nil {
		health["last_run_error"] = lastErr.Error()
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetReport(c *gin.Context) {
	result := h.store.GetResult()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report available yet"})
		return
	}

	c.Header("X-Report-Industry", result.Industry)
	c.Header("X-Report-Generated-At", result.StartedAt.Format(time.RFC3339))
	c.String(http.StatusOK, result.Report)
}

func (h *Handler) GetArticles(c *gin.Context) {
	result := h.store.GetResult()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no articles available yet"})
		return
	}

	articles := make([]map[string]interface{}, 0, len(result.Articles))
	for _, article := range result.Articles {
		articles = append(articles, map[string]interface{}{
			"source":     article.Source,
			"category":   article.Category,
			"title":      article.Title,
			"link":       article.Link,
			"published":  article.Published,
			"summary":    article.Summary,
			"scraped_at": article.ScrapedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"industry": result.Industry,
		"count":    len(articles),
		"articles": articles,
	})
}

func (h *Handler) TriggerRun(c *gin.Context) {
	if err := h.updater.TriggerRun(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "run started"})
}
