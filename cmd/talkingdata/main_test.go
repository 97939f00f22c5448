package main

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/spektr-org/talkingdata/config"
)

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	if err := configureLogging(config.LogConfig{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("configureLogging: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logrus.GetLevel())
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", logrus.StandardLogger().Formatter)
	}

	if err := configureLogging(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
