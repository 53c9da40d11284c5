package slogcustom

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestCustomHandler(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer

	log := slog.New(NewCustomHandler(&buf, slog.LevelInfo))

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.With("component", "gate").WithGroup("award").Info("coupon awarded", "remaining", 19)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "coupon awarded")
	assert.Contains(t, out, "component=gate")
	assert.Contains(t, out, "award.remaining=19")
}

func TestCustomHandler_GroupAttr(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer

	log := slog.New(NewCustomHandler(&buf, slog.LevelDebug))
	log.Warn("store", slog.Group("kv", "driver", "sqlite"))

	assert.Contains(t, buf.String(), "WARN:")
	assert.Contains(t, buf.String(), "kv.driver=sqlite")
}
