package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/config"
	"github.com/tembolo1284/MatchX/transport"
)

func printUsage(program string) {
	fmt.Printf(`========================================
   GATEWAY SERVER v1.0
========================================

Usage: %s [OPTIONS] [port] [engine_socket]

Arguments:
  port             TCP port to listen on (default: 8080)
  engine_socket    Path to engine's Unix socket
                   (default: /tmp/matching_engine.sock)

Options:
  -h, --help       Show this help message
  -v, --version    Show version information

Examples:
  %s 8080 /tmp/engine.sock
  %s 9000
  %s --version
`, program, program, program, program)
}

func printVersion() {
	fmt.Println("Gateway Server v1.0.0")
}

func main() {
	cfg := config.GatewayFromEnv()
	listenAddr := cfg.ListenAddr
	socketPath := cfg.SocketPath

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Usage = func() { printUsage(os.Args[0]) }
	var showVersion bool
	fs.BoolVar(&showVersion, "v", false, "Show version information")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		os.Exit(1)
	}
	if showVersion {
		printVersion()
		return
	}
	if args := fs.Args(); len(args) > 0 {
		listenAddr = ":" + args[0]
	}
	if args := fs.Args(); len(args) > 1 {
		socketPath = args[1]
	}

	log, _ := zap.NewProduction()
	defer log.Sync()

	log.Info("gateway configuration", zap.String("listen_addr", listenAddr), zap.String("engine_socket", socketPath))

	gw := transport.NewGatewayServer(listenAddr, socketPath, log)

	// Connect to the engine before accepting any client traffic: a
	// gateway with nowhere to forward orders should refuse to start.
	if err := gw.Start(); err != nil {
		log.Fatal("failed to start gateway", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Losing the engine connection is fatal for the gateway: individual
	// client disconnects are recoverable, but a gateway with no engine to
	// forward to has nothing left to do.
	select {
	case sig := <-quit:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		gw.Stop()
		log.Info("shutdown complete")
	case <-gw.Done():
		log.Error("engine connection lost, exiting")
		gw.Stop()
		os.Exit(1)
	}
}
