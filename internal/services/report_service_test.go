package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilrisk/pkg/contracts/domain"
)

func TestReportText(t *testing.T) {
	a := domain.AlertRow{
		Date:            day("2021-07-01"),
		Level:           domain.RiskLevelHigh,
		RiskIndex:       75,
		TriggerFactorZh: "VIX恐慌指数",
	}
	text := ReportText(a)
	assert.True(t, strings.HasPrefix(text,
		"根据2021-07-01的预警数据分析，当前原油市场风险指数为75.0，处于High风险等级。主要触发因素为VIX恐慌指数，"))
	assert.True(t, strings.HasSuffix(text, "做好风险应对准备。"))
}

func TestChunks(t *testing.T) {
	t.Run("even", func(t *testing.T) {
		chunks := evenChunks("abcdefghijkl", 5)
		assert.Equal(t, []string{"ab", "cd", "ef", "gh", "ijkl"}, chunks)
	})

	t.Run("even counts runes", func(t *testing.T) {
		chunks := evenChunks("风险指数回落至二十", 5)
		require.Len(t, chunks, 5)
		assert.Equal(t, "风", chunks[0])
		assert.Equal(t, "回落至二十", chunks[4])
	})

	t.Run("fixed", func(t *testing.T) {
		assert.Equal(t, []string{"原油市场", "风险指数", "高"}, fixedChunks("原油市场风险指数高", 4))
		assert.Empty(t, fixedChunks("", 4))
	})
}

func collect(tokens *[]string) func(string) error {
	return func(token string) error {
		*tokens = append(*tokens, token)
		return nil
	}
}

func TestReportService_GenerateThenCache(t *testing.T) {
	data := scenarioData(t)
	svc := NewReportService(data, 0, nil)
	ctx := context.Background()

	report, err := svc.Prepare(ctx, 10)
	require.NoError(t, err)
	assert.False(t, report.Cached)
	require.Len(t, report.Chunks, 5)
	assert.Contains(t, report.Text, "2021-07-01")
	assert.Contains(t, report.Text, "75.0")

	var tokens []string
	require.NoError(t, svc.Stream(ctx, report, collect(&tokens)))
	assert.Equal(t, report.Chunks, tokens)
	assert.Equal(t, report.Text, strings.Join(tokens, ""))

	cached, ok := data.Report(10)
	require.True(t, ok)
	assert.Equal(t, report.Text, cached)

	again, err := svc.Prepare(ctx, 10)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, report.Text, again.Text)
	for _, c := range again.Chunks[:len(again.Chunks)-1] {
		assert.Equal(t, 4, utf8.RuneCountInString(c))
	}
	assert.Equal(t, report.Text, strings.Join(again.Chunks, ""))
}

func TestReportService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown alert", func(t *testing.T) {
		svc := NewReportService(scenarioData(t), 0, nil)
		_, err := svc.Prepare(ctx, 404)
		require.ErrorIs(t, err, ErrAlertNotFound)
		assert.Equal(t, "Alert not found: 404", err.Error())
	})

	t.Run("emit failure skips the cache", func(t *testing.T) {
		data := scenarioData(t)
		svc := NewReportService(data, 0, nil)
		report, err := svc.Prepare(ctx, 1)
		require.NoError(t, err)

		boom := errors.New("client gone")
		err = svc.Stream(ctx, report, func(string) error { return boom })
		require.ErrorIs(t, err, boom)
		_, ok := data.Report(1)
		assert.False(t, ok)
	})

	t.Run("cancelled while waiting between chunks", func(t *testing.T) {
		data := scenarioData(t)
		svc := NewReportService(data, time.Hour, nil)
		report, err := svc.Prepare(ctx, 1)
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		var tokens []string
		err = svc.Stream(cctx, report, func(token string) error {
			tokens = append(tokens, token)
			cancel()
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, tokens, 1)
		_, ok := data.Report(1)
		assert.False(t, ok)
	})
}
