package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	envVarListenAddr      = "PEERLINE_LISTEN_ADDR"
	envVarStaticDir       = "PEERLINE_STATIC_DIR"
	envVarLogLevel        = "PEERLINE_LOG_LEVEL"
	envVarShutdownTimeout = "PEERLINE_SHUTDOWN_TIMEOUT"
	envVarSendQueueSize   = "PEERLINE_SEND_QUEUE_SIZE"
	envVarMaxMessageBytes = "PEERLINE_MAX_MESSAGE_BYTES"

	DefaultListenAddr      = ":8080"
	DefaultStaticDir       = "./static"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultSendQueueSize   = 64
	// DefaultMaxMessageBytes bounds a single signaling frame. SDP offers
	// run a few KB; anything near this limit is not a signaling message.
	DefaultMaxMessageBytes = 64 << 10
)

type Config struct {
	ListenAddr      string
	StaticDir       string
	LogLevel        zerolog.Level
	ShutdownTimeout time.Duration
	SendQueueSize   int
	MaxMessageBytes int64
}

// FromEnv builds the config from environment variables, falling back to
// defaults for anything unset.
func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:      DefaultListenAddr,
		StaticDir:       DefaultStaticDir,
		LogLevel:        zerolog.InfoLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		SendQueueSize:   DefaultSendQueueSize,
		MaxMessageBytes: DefaultMaxMessageBytes,
	}

	if v := os.Getenv(envVarListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envVarStaticDir); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv(envVarLogLevel); v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envVarLogLevel, err)
		}
		cfg.LogLevel = level
	}
	if v := os.Getenv(envVarShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envVarShutdownTimeout, err)
		}
		cfg.ShutdownTimeout = d
	}
	if v := os.Getenv(envVarSendQueueSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s: must be a positive integer", envVarSendQueueSize)
		}
		cfg.SendQueueSize = n
	}
	if v := os.Getenv(envVarMaxMessageBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s: must be a positive integer", envVarMaxMessageBytes)
		}
		cfg.MaxMessageBytes = n
	}

	return cfg, nil
}
