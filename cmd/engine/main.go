package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tembolo1284/MatchX/config"
	"github.com/tembolo1284/MatchX/httpapi"
	"github.com/tembolo1284/MatchX/manager"
	"github.com/tembolo1284/MatchX/protocol"
	"github.com/tembolo1284/MatchX/transport"
)

func printUsage(program string) {
	fmt.Printf(`========================================
   MATCHING ENGINE v1.0
========================================

Usage: %s [OPTIONS] [socket_path]

Arguments:
  socket_path      Unix domain socket path for IPC
                   (default: /tmp/matching_engine.sock)

Options:
  -h, --help       Show this help message
  -v, --version    Show version information

Examples:
  %s /tmp/engine.sock
  %s --version
`, program, program, program)
}

func printVersion() {
	fmt.Println("Matching Engine v1.0.0")
}

func main() {
	cfg := config.EngineFromEnv()
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
		socketPath = args[0]
	}

	log, _ := zap.NewProduction()
	defer log.Sync()

	// mgr and listener each need a reference to the other: mgr sends
	// outbound frames through the listener's current gateway connection,
	// and the listener dispatches inbound frames into mgr. listener is
	// declared first and captured by mgr's send closure, then assigned
	// once constructed.
	var listener *transport.EngineListener

	mgr := manager.New(func(frame []byte) {
		if err := listener.Send(frame); err != nil {
			log.Warn("failed to send frame to gateway", zap.Error(err))
		}
	}, log)

	listener = transport.NewEngineListener(socketPath, func(frame []byte, h protocol.Header) {
		transport.Dispatch(mgr, log, frame, h)
	}, log)

	for _, symbol := range cfg.Symbols {
		mgr.AddSymbol(symbol, cfg.ExpectedOrders, cfg.ExpectedLevels)
	}
	log.Info("configured symbols", zap.Strings("symbols", cfg.Symbols))

	if err := listener.Start(); err != nil {
		log.Fatal("failed to start IPC listener", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := listener.Serve(); err != nil {
			log.Info("IPC listener stopped", zap.Error(err))
		}
	}()

	stopStats := make(chan struct{})
	go runStatisticsReporter(mgr, log, stopStats)

	router := gin.New()
	httpapi.RegisterRoutes(router, mgr)
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Info("debug HTTP API listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("debug HTTP API stopped", zap.Error(err))
		}
	}()

	sig := <-quit
	log.Info("received signal, shutting down", zap.String("signal", sig.String()))

	close(stopStats)
	listener.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("debug HTTP API forced to shutdown", zap.Error(err))
	}

	finalStats := mgr.Stats()
	log.Info("final statistics",
		zap.Int64("total_orders_received", finalStats.TotalOrdersReceived),
		zap.Int64("total_orders_accepted", finalStats.TotalOrdersAccepted),
		zap.Int64("total_orders_rejected", finalStats.TotalOrdersRejected),
		zap.Int64("total_orders_cancelled", finalStats.TotalOrdersCancelled),
		zap.Int64("total_executions", finalStats.TotalExecutions),
		zap.Int64("total_volume", finalStats.TotalVolume),
	)
	log.Info("shutdown complete")
}

// runStatisticsReporter logs engine-wide throughput every ten seconds,
// grounded on main.cpp's run_statistics_reporter thread.
func runStatisticsReporter(mgr *manager.Manager, log *zap.Logger, stop <-chan struct{}) {
	lastStats := mgr.Stats()
	lastTime := time.Now()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			current := mgr.Stats()
			now := time.Now()
			elapsed := now.Sub(lastTime).Seconds()
			if elapsed <= 0 {
				continue
			}

			ordersPerSec := float64(current.TotalOrdersReceived-lastStats.TotalOrdersReceived) / elapsed
			execsPerSec := float64(current.TotalExecutions-lastStats.TotalExecutions) / elapsed

			log.Info("engine statistics",
				zap.Int64("total_orders", current.TotalOrdersReceived),
				zap.Int64("accepted", current.TotalOrdersAccepted),
				zap.Int64("rejected", current.TotalOrdersRejected),
				zap.Int64("cancelled", current.TotalOrdersCancelled),
				zap.Int64("executions", current.TotalExecutions),
				zap.Int64("total_volume", current.TotalVolume),
				zap.Float64("orders_per_sec", ordersPerSec),
				zap.Float64("executions_per_sec", execsPerSec),
			)

			lastStats = current
			lastTime = now
		}
	}
}
