package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		envLevel string
		want     zerolog.Level
	}{
		{"Trace level", "TRACE", zerolog.TraceLevel},
		{"Debug level", "DEBUG", zerolog.DebugLevel},
		{"Info level", "INFO", zerolog.InfoLevel},
		{"Warn level", "WARN", zerolog.WarnLevel},
		{"Error level", "ERROR", zerolog.ErrorLevel},
		{"Empty defaults to Info", "", zerolog.InfoLevel},
		{"Invalid defaults to Info", "INVALID", zerolog.InfoLevel},
		{"Case insensitive", "debug", zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envLevel)

			if got := getLogLevel(); got != tt.want {
				t.Errorf("getLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	previousLogger := log.Logger
	previousLevel := zerolog.GlobalLevel()
	defer func() {
		log.Logger = previousLogger
		zerolog.SetGlobalLevel(previousLevel)
	}()

	tests := []struct {
		name      string
		setLevel  string
		logFunc   func(msg string)
		message   string
		shouldLog bool
	}{
		{
			name:      "Debug logs when Debug",
			setLevel:  "DEBUG",
			logFunc:   func(msg string) { log.Debug().Msg(msg) },
			message:   "debug message",
			shouldLog: true,
		},
		{
			name:      "Debug doesn't log when Info",
			setLevel:  "INFO",
			logFunc:   func(msg string) { log.Debug().Msg(msg) },
			message:   "debug message",
			shouldLog: false,
		},
		{
			name:      "Warn logs when Info",
			setLevel:  "INFO",
			logFunc:   func(msg string) { log.Warn().Msg(msg) },
			message:   "warn message",
			shouldLog: true,
		},
		{
			name:      "Info doesn't log when Error",
			setLevel:  "ERROR",
			logFunc:   func(msg string) { log.Info().Msg(msg) },
			message:   "info message",
			shouldLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.setLevel)

			var buf bytes.Buffer
			initWithWriter(&buf)
			tt.logFunc(tt.message)

			logged := strings.Contains(buf.String(), tt.message)
			if logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output: %q)", logged, tt.shouldLog, buf.String())
			}
		})
	}
}
