package handlers

import (
	"net/http"
	"transcript-insights-api/utils"

	"github.com/gin-gonic/gin"
)

func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"transcripts_processed_total":           utils.TranscriptsProcessed.Value(),
			"transcripts_validation_failures_total": utils.ValidationFailures.Value(),
			"transcripts_upstream_failures_total":   utils.UpstreamFailures.Value(),
			"analyses_stored_total":                 utils.AnalysesStored.Value(),
			"reanalysis_requests_total":             utils.ReanalysisRequests.Value(),
		})
	}
}
