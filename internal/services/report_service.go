package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"oilrisk/pkg/contracts/domain"
)

// Report streaming
const (
	// ReportDone is the frame that ends every report stream
	ReportDone = "[DONE]"

	generatedChunks = 5
	cachedChunkSize = 4
)

const reportTemplate = "根据%s的预警数据分析，当前原油市场风险指数为%.1f，处于%s风险等级。" +
	"主要触发因素为%s，需要密切关注相关指标变化。" +
	"建议及时调整风险管理策略，市场波动可能在未来一周内持续。" +
	"综合多维度因子评估，当前市场不确定性较高，建议保持警惕。" +
	"后续应持续跟踪供需、地缘政治及金融市场变化，做好风险应对准备。"

// Report is an analysis text ready to stream
type Report struct {
	AlertID int64
	Text    string
	Cached  bool
	Chunks  []string
}

// ReportService produces alert analysis reports
type ReportService struct {
	data       *Dataset
	logger     *slog.Logger
	chunkDelay time.Duration
}

// NewReportService creates a report service pausing chunkDelay between chunks
func NewReportService(data *Dataset, chunkDelay time.Duration, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		data:       data,
		logger:     logger.With(slog.String("service", "report")),
		chunkDelay: chunkDelay,
	}
}

// Prepare resolves the report of an alert. A cached report is split into
// four character chunks; a new one into five near-equal chunks.
func (s *ReportService) Prepare(ctx context.Context, alertID int64) (*Report, error) {
	alert, ok := s.data.Alert(alertID)
	if !ok {
		return nil, newError(ErrAlertNotFound, fmt.Sprintf("Alert not found: %d", alertID))
	}
	if text, ok := s.data.Report(alertID); ok {
		return &Report{AlertID: alertID, Text: text, Cached: true, Chunks: fixedChunks(text, cachedChunkSize)}, nil
	}
	text := ReportText(alert)
	return &Report{AlertID: alertID, Text: text, Chunks: evenChunks(text, generatedChunks)}, nil
}

// Stream emits every chunk of r, pausing between chunks, and caches a new
// report once all chunks were delivered. It stops early when ctx is done or
// emit fails.
func (s *ReportService) Stream(ctx context.Context, r *Report, emit func(token string) error) error {
	for _, chunk := range r.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return fmt.Errorf("failed to emit report chunk: %w", err)
		}
		if s.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.chunkDelay):
			}
		}
	}
	if !r.Cached {
		s.data.SetReport(r.AlertID, r.Text)
		s.logger.InfoContext(ctx, "report cached", slog.Int64("alert_id", r.AlertID))
	}
	return nil
}

// ReportText renders the analysis paragraph of an alert
func ReportText(a domain.AlertRow) string {
	return fmt.Sprintf(reportTemplate, dateKey(a.Date), a.RiskIndex, a.Level, a.TriggerFactorZh)
}

// evenChunks splits text into n chunks of len/n runes; the last takes the rest
func evenChunks(text string, n int) []string {
	runes := []rune(text)
	size := len(runes) / n
	out := make([]string, n)
	for i := 0; i < n; i++ {
		end := (i + 1) * size
		if i == n-1 {
			end = len(runes)
		}
		out[i] = string(runes[i*size : end])
	}
	return out
}

// fixedChunks splits text into chunks of size runes
func fixedChunks(text string, size int) []string {
	runes := []rune(text)
	out := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		out = append(out, string(runes[i:min(i+size, len(runes))]))
	}
	return out
}
