package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	lanmac "github.com/renginhelin/NetworkProtocols2024"
)

func TestPrintResults(t *testing.T) {
	rt := lanmac.CreateResultsTable(lanmac.CreateSweepCfg("print"))
	series := lanmac.CreateSeries(5, 2)
	series.AddPoint(1, 0.40951, 0, 0, false)
	series.AddPoint(2, 0.1, 0, 0, false)
	rt.AddSeries(lanmac.CsmaCd, series)

	var out bytes.Buffer
	printResults(&out, rt)
	text := out.String()
	assert.Contains(t, text, "CSMA/CD")
	assert.Contains(t, text, "G=1")
	assert.Contains(t, text, "0.4095")
	assert.Contains(t, text, "0.1000")
}

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()
	assert.False(t, newLogger(0).Enabled(ctx, slog.LevelWarn))
	assert.True(t, newLogger(1).Enabled(ctx, slog.LevelWarn))
	assert.False(t, newLogger(2).Enabled(ctx, slog.LevelDebug))
	assert.True(t, newLogger(3).Enabled(ctx, slog.LevelDebug))
}
