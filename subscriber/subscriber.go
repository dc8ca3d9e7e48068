package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"transcript-insights-api/analyzer"
	"transcript-insights-api/utils"
	valkeystore "transcript-insights-api/valkey"

	"github.com/valkey-io/valkey-go"
	"go.uber.org/zap"
)

const AnalysisRequestedChannel = "analysis_requested"

// CacheTTL bounds how long a cached analysis result is served before falling
// back to the database.
const CacheTTL = 24 * time.Hour

// AnalysisRequestedPayload describes a re-analysis request published by the
// trigger endpoint. The transcript bytes live in the archive bucket.
type AnalysisRequestedPayload struct {
	ID       string `json:"id"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

// StartSubscribers listens for re-analysis requests in the background.
func StartSubscribers(logger *zap.Logger, ai analyzer.Analyzer) {
	go startSubscriber(logger, AnalysisRequestedChannel, func(l *zap.Logger, msg string) {
		processAnalysisJob(l, ai, msg)
	})
}

func startSubscriber(logger *zap.Logger, channel string, processor func(*zap.Logger, string)) {
	sugar := logger.Sugar()
	sugar.Infow("Message subscriber started",
		"channel", channel)

	ctx := context.Background()
	client := valkeystore.RawClient

	// Receive blocks while subscribed; resubscribe after any interruption.
	for {
		err := client.Receive(ctx, client.B().Subscribe().Channel(channel).Build(), func(msg valkey.PubSubMessage) {
			if strings.TrimSpace(msg.Message) == "" {
				sugar.Warn("Received empty message from pub/sub")
				return
			}
			go processor(logger, msg.Message)
		})
		if err != nil {
			sugar.Errorw("Subscription interrupted",
				"channel", channel,
				"error", err)
			time.Sleep(5 * time.Second)
		}
	}
}

// processAnalysisJob downloads the archived transcript, re-runs the analysis
// and replaces the stored result.
func processAnalysisJob(logger *zap.Logger, ai analyzer.Analyzer, message string) {
	ctx := context.Background()
	sugar := logger.Sugar()

	var payload AnalysisRequestedPayload
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		sugar.Errorw("Invalid analysis request payload",
			"error", err)
		return
	}
	if payload.ID == "" || payload.Key == "" {
		sugar.Error("Analysis request payload missing id or key")
		return
	}

	sugar.Infow("Processing re-analysis request",
		"id", payload.ID)

	data, err := utils.FetchTranscript(ctx, payload.Bucket, payload.Key)
	if err != nil {
		sugar.Errorw("Transcript download failed",
			"error", err)
		return
	}

	result, err := ai.AnalyzeTranscript(ctx, data, payload.MimeType)
	if err != nil {
		sugar.Errorw("Analysis process failed",
			"error", err)
		return
	}

	result.ID = payload.ID
	result.FileName = payload.FileName
	result.CreatedAt = time.Now().UTC()

	if err := StoreAnalysis(ctx, logger, result, payload.Key, payload.MimeType); err != nil {
		sugar.Errorw("Result storage failed",
			"error", err)
		return
	}

	sugar.Infow("Re-analysis completed successfully",
		"id", payload.ID)
}

// StoreAnalysis upserts the analysis result into the database and refreshes
// the cache entry. A database failure is returned; a cache failure is only
// logged, the database copy is authoritative.
func StoreAnalysis(ctx context.Context, logger *zap.Logger, result *analyzer.AnalysisResult, s3Key, mimeType string) error {
	sugar := logger.Sugar()

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis result: %w", err)
	}

	if utils.DB != nil {
		var title, date string
		if result.MeetingDetails != nil {
			title = result.MeetingDetails.MeetingTitle
			date = result.MeetingDetails.MeetingDate
		}

		_, err = utils.DB.ExecContext(ctx, `
            INSERT INTO meeting_analyses
                (id, file_name, mime_type, s3_key, meeting_title, meeting_date,
                 meeting_summary, action_items_count, result, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
            ON CONFLICT (id) DO UPDATE SET
                meeting_summary = EXCLUDED.meeting_summary,
                action_items_count = EXCLUDED.action_items_count,
                result = EXCLUDED.result,
                updated_at = EXCLUDED.updated_at
        `, result.ID, result.FileName, mimeType, s3Key,
			title, date, result.MeetingSummary, result.ActionItemsCount,
			string(jsonData), time.Now().UTC())
		if err != nil {
			sugar.Errorw("Database storage failed",
				"error", err)
			return err
		}
		utils.AnalysesStored.Add(1)
	}

	if valkeystore.Client != nil {
		cacheKey := fmt.Sprintf("analysis:%s", result.ID)
		if err := valkeystore.Client.Set(ctx, cacheKey, string(jsonData), CacheTTL).Err(); err != nil {
			sugar.Errorw("Cache storage failed",
				"error", err)
		}
	}

	return nil
}
