package logger

import (
	"istqb_study_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolveLevel(t *testing.T) {
	cfg := &config.Config{}

	cfg.Server.Mode = "debug"
	assert.Equal(t, zap.DebugLevel, resolveLevel(cfg))

	cfg.Server.Mode = "release"
	assert.Equal(t, zap.InfoLevel, resolveLevel(cfg))

	cfg.Log.Level = "warn"
	assert.Equal(t, zap.WarnLevel, resolveLevel(cfg))

	// 无法解析时回退到模式默认值
	cfg.Log.Level = "loud"
	assert.Equal(t, zap.InfoLevel, resolveLevel(cfg))
}

func TestReloadAdjustsLevel(t *testing.T) {
	Reload(&config.Config{Log: config.LogConfig{Level: "error"}})
	assert.False(t, level.Enabled(zap.WarnLevel))

	Reload(&config.Config{Server: config.ServerConfig{Mode: "debug"}})
	assert.True(t, level.Enabled(zap.DebugLevel))
}
