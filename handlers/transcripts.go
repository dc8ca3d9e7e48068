package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"transcript-insights-api/analyzer"
	"transcript-insights-api/intake"
	"transcript-insights-api/subscriber"
	"transcript-insights-api/utils"
	valkeystore "transcript-insights-api/valkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleProcessTranscript accepts an uploaded transcript, runs the AI
// analysis and returns the structured result. When persistence backends are
// configured the raw file is archived and the result stored.
func HandleProcessTranscript(logger *zap.Logger, settings *utils.Settings, ai analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.ValidationFailures.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"detail": "transcript file is required (form key: file)"})
			return
		}

		details, err := parseMeetingDetails(c.PostForm("meeting_details"))
		if err != nil {
			utils.ValidationFailures.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		// Extension and size are checked before the file is even opened;
		// nothing leaves the process for an invalid upload.
		mimeType, err := intake.Validate(fileHeader.Filename, fileHeader.Size, settings.MaxFileSize)
		if err != nil {
			utils.ValidationFailures.Add(1)
			var tooLarge *intake.PayloadTooLargeError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			sugar.Errorw("File processing failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read uploaded file"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			sugar.Errorw("File processing failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read uploaded file"})
			return
		}

		// The multipart header's declared size is client-controlled.
		if int64(len(data)) > settings.MaxFileSize {
			utils.ValidationFailures.Add(1)
			tooLarge := &intake.PayloadTooLargeError{Size: int64(len(data)), Limit: settings.MaxFileSize}
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": tooLarge.Error()})
			return
		}

		result, err := ai.AnalyzeTranscript(c.Request.Context(), data, mimeType)
		if err != nil {
			utils.UpstreamFailures.Add(1)
			var upstream *analyzer.UpstreamError
			if errors.As(err, &upstream) {
				c.JSON(http.StatusBadGateway, gin.H{"detail": upstream.Error()})
				return
			}
			sugar.Errorw("Analysis process failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to analyze transcript"})
			return
		}

		result.ID = uuid.NewString()
		result.FileName = fileHeader.Filename
		result.MeetingDetails = details
		result.CreatedAt = time.Now().UTC()

		// Archive the raw bytes so the trigger endpoint can re-analyze later.
		s3Key := ""
		if utils.S3Client != nil {
			s3Key = fmt.Sprintf("%s/%s", result.ID, fileHeader.Filename)
			if err := utils.ArchiveTranscript(c.Request.Context(), data, s3Key); err != nil {
				sugar.Errorw("Transcript archival failed",
					"error", err)
				s3Key = ""
			}
		}

		if utils.DB != nil || valkeystore.Client != nil {
			if err := subscriber.StoreAnalysis(c.Request.Context(), logger, result, s3Key, mimeType); err != nil {
				utils.UpstreamFailures.Add(1)
				c.JSON(http.StatusBadGateway, gin.H{"detail": "failed to store analysis result"})
				return
			}
		}

		utils.TranscriptsProcessed.Add(1)
		c.JSON(http.StatusOK, result)
	}
}

func parseMeetingDetails(raw string) (*analyzer.MeetingDetails, error) {
	if raw == "" {
		return nil, nil
	}
	var details analyzer.MeetingDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, errors.New("meeting_details must be a JSON object")
	}
	if details.MeetingDate != "" {
		if _, err := time.Parse(time.RFC3339, details.MeetingDate); err != nil {
			return nil, fmt.Errorf("meeting_date must be RFC 3339: %q", details.MeetingDate)
		}
	}
	return &details, nil
}

// HandleGetAnalysis returns a stored analysis result, cache first.
func HandleGetAnalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()
		id := c.Param("id")

		if valkeystore.Client != nil {
			key := fmt.Sprintf("analysis:%s", id)
			data, err := valkeystore.Client.Get(valkeystore.Ctx, key).Result()
			if err == nil {
				c.Header("Content-Type", "application/json")
				c.String(http.StatusOK, data)
				return
			}
			if err.Error() != "redis: nil" && err.Error() != "valkey: nil" {
				sugar.Errorw("Cache lookup failed",
					"error", err)
			}
		}

		if utils.DB == nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "analysis not found"})
			return
		}

		var raw string
		err := utils.DB.QueryRowContext(c.Request.Context(),
			`SELECT result FROM meeting_analyses WHERE id = $1`, id).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "analysis not found"})
			return
		}
		if err != nil {
			sugar.Errorw("Database query failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to retrieve analysis"})
			return
		}

		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, raw)
	}
}

// HandleListAnalyses returns all stored analyses, newest first.
func HandleListAnalyses(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.DB == nil {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}

		rows, err := utils.DB.QueryContext(c.Request.Context(), `
            SELECT id, file_name, meeting_title, meeting_summary, action_items_count, created_at, updated_at
            FROM meeting_analyses
            ORDER BY created_at DESC
        `)
		if err != nil {
			logger.Error("Database query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to retrieve analyses"})
			return
		}
		defer rows.Close()

		var results []gin.H
		for rows.Next() {
			var id, fileName string
			var title, summary sql.NullString
			var count int
			var createdAt, updatedAt time.Time

			if err := rows.Scan(&id, &fileName, &title, &summary, &count, &createdAt, &updatedAt); err != nil {
				logger.Error("Data scanning failed", zap.Error(err))
				continue
			}

			results = append(results, gin.H{
				"id":                 id,
				"file_name":          fileName,
				"meeting_title":      title.String,
				"meeting_summary":    summary.String,
				"action_items_count": count,
				"created_at":         createdAt,
				"updated_at":         updatedAt,
			})
		}

		if len(results) == 0 {
			c.JSON(http.StatusOK, []gin.H{})
			return
		}

		c.JSON(http.StatusOK, results)
	}
}

// HandleDeleteAnalysis removes a stored analysis and its cache entry.
func HandleDeleteAnalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()
		id := c.Param("id")

		if utils.DB == nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "analysis not found"})
			return
		}

		res, err := utils.DB.ExecContext(c.Request.Context(),
			`DELETE FROM meeting_analyses WHERE id = $1`, id)
		if err != nil {
			sugar.Errorw("Database delete failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete analysis"})
			return
		}

		affected, _ := res.RowsAffected()
		if affected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "analysis not found"})
			return
		}

		if valkeystore.Client != nil {
			key := fmt.Sprintf("analysis:%s", id)
			if err := valkeystore.Client.Del(valkeystore.Ctx, key).Err(); err != nil {
				sugar.Errorw("Cache delete failed",
					"error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Analysis deleted successfully",
			"id":      id,
		})
	}
}

// HandleTriggerReanalysis publishes a re-analysis request for an archived
// transcript. The subscriber picks it up, re-runs the model and replaces the
// stored result.
func HandleTriggerReanalysis(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()
		id := c.Param("id")

		if utils.DB == nil || valkeystore.Client == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "re-analysis requires the database and cache backends"})
			return
		}

		var s3Key sql.NullString
		var fileName, mimeType string
		err := utils.DB.QueryRowContext(c.Request.Context(),
			`SELECT s3_key, file_name, mime_type FROM meeting_analyses WHERE id = $1`, id).
			Scan(&s3Key, &fileName, &mimeType)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "analysis not found"})
			return
		}
		if err != nil {
			sugar.Errorw("Database query failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to retrieve analysis"})
			return
		}
		if s3Key.String == "" {
			c.JSON(http.StatusNotFound, gin.H{"detail": "archived transcript not available for this analysis"})
			return
		}

		payload := subscriber.AnalysisRequestedPayload{
			ID:       id,
			Bucket:   utils.Bucket(),
			Key:      s3Key.String,
			FileName: fileName,
			MimeType: mimeType,
		}

		message, err := json.Marshal(payload)
		if err != nil {
			sugar.Errorw("Message serialization failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create analysis request"})
			return
		}

		if err := valkeystore.Client.Publish(c.Request.Context(), subscriber.AnalysisRequestedChannel, string(message)).Err(); err != nil {
			sugar.Errorw("Message publishing failed",
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to trigger re-analysis"})
			return
		}

		utils.ReanalysisRequests.Add(1)
		c.JSON(http.StatusOK, gin.H{
			"message": "Re-analysis triggered successfully",
			"id":      id,
		})
	}
}
