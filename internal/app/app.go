package app

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/rodrigouroz/moltbot/internal/app/bootstrap"
	"github.com/rodrigouroz/moltbot/internal/app/server"
	"github.com/rodrigouroz/moltbot/internal/config"
	"github.com/rodrigouroz/moltbot/internal/geolite"
)

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	log.SetLevel(log.DebugLevel)

	bindFlag := flag.String("bind", "", "Bind mode: all, local, tailnet, or an IP literal")
	portFlag := flag.Int("port", 0, "Gateway port override")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	flag.Parse()

	if *productionFlag {
		log.SetLevel(log.InfoLevel)
	}

	store, err := bootstrap.Setup()
	if err != nil {
		return err
	}
	defer geolite.Close()

	cfg := config.GetConfig()
	if bind := resolveBind(*bindFlag); bind != "" {
		cfg.Gateway.Bind = bind
	}
	if port := resolvePort("GATEWAY_PORT", *portFlag); port != 0 {
		cfg.Gateway.Port = port
	}
	config.ApplyOverrides(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.OpenRoutes(ctx, store)
}

func resolveBind(flagValue string) string {
	if bind := os.Getenv("GATEWAY_BIND"); bind != "" {
		return bind
	}
	return flagValue
}

func resolvePort(envKey string, flagValue int) int {
	if port := readPort(envKey); port != 0 {
		return port
	}
	return flagValue
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
