// Package config centralizes environment-driven settings for both the
// engine and gateway binaries, loaded the way cmd/app's main.go loads
// its own: a best-effort .env file via godotenv, then overridden by
// real environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultSocketPath     = "/tmp/matching_engine.sock"
	defaultGatewayPort    = 8080
	defaultExpectedOrders = 65536
	defaultExpectedLevels = 256
	defaultLogLevel       = "info"
)

var defaultSymbols = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}

// EngineConfig holds everything cmd/engine needs at startup.
type EngineConfig struct {
	SocketPath     string
	Symbols        []string
	ExpectedOrders int
	ExpectedLevels int
	LogLevel       string
	HTTPAddr       string
}

// GatewayConfig holds everything cmd/gateway needs at startup.
type GatewayConfig struct {
	ListenAddr string
	SocketPath string
	LogLevel   string
}

// Load reads a .env file into the environment if present (silently
// ignored when absent, since production deployments set real environment
// variables instead). EngineFromEnv and GatewayFromEnv call it, then
// build their configs from MATCHX_* environment variables, falling back
// to the source's own defaults.
func Load() {
	_ = godotenv.Load(".env")
}

func EngineFromEnv() EngineConfig {
	Load()
	return EngineConfig{
		SocketPath:     envString("MATCHX_SOCKET_PATH", defaultSocketPath),
		Symbols:        envSymbols("MATCHX_SYMBOLS", defaultSymbols),
		ExpectedOrders: envInt("MATCHX_EXPECTED_ORDERS", defaultExpectedOrders),
		ExpectedLevels: envInt("MATCHX_EXPECTED_LEVELS", defaultExpectedLevels),
		LogLevel:       envString("MATCHX_LOG_LEVEL", defaultLogLevel),
		HTTPAddr:       envString("MATCHX_HTTP_ADDR", ":8090"),
	}
}

func GatewayFromEnv() GatewayConfig {
	Load()
	port := envInt("MATCHX_GATEWAY_PORT", defaultGatewayPort)
	return GatewayConfig{
		ListenAddr: envString("MATCHX_GATEWAY_ADDR", ":"+strconv.Itoa(port)),
		SocketPath: envString("MATCHX_SOCKET_PATH", defaultSocketPath),
		LogLevel:   envString("MATCHX_LOG_LEVEL", defaultLogLevel),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envSymbols(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
