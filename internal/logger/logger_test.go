package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_DevelopmentUsesDebugLevel(t *testing.T) {
	log := New("development", false)
	if log == nil {
		t.Fatal("Expected logger to be initialized")
	}
	if log.GetZerolog().GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level in development, got %s", log.GetZerolog().GetLevel())
	}
}

func TestNew_ProductionUsesInfoLevel(t *testing.T) {
	log := New("production", false)
	if log.GetZerolog().GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level in production, got %s", log.GetZerolog().GetLevel())
	}
}

func TestNew_VerboseForcesDebugLevel(t *testing.T) {
	log := New("production", true)
	if log.GetZerolog().GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level with verbose, got %s", log.GetZerolog().GetLevel())
	}
}

func TestWithRunID_ReturnsChildLogger(t *testing.T) {
	log := New("production", false)
	child := log.WithRunID("0c9a0c4e-7d1e-4a83-9f3a-2b8f9a4d1c55")

	if child == nil {
		t.Fatal("Expected child logger")
	}
	if child == log {
		t.Error("Expected a new logger instance")
	}
}

func TestWith_AddsContextFields(t *testing.T) {
	log := New("production", false)
	child := log.With(map[string]interface{}{"step": "load"})

	if child == nil {
		t.Fatal("Expected child logger")
	}

	// Logging through both must not panic
	log.Info("parent", nil)
	child.Info("child", map[string]interface{}{"count": 2})
	child.Debug("suppressed at info level", nil)
	child.Warn("warning", nil)
	child.Error("error", nil, nil)
}
