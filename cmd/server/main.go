package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixge/fgprof"

	"github.com/omochice/toy-line-echo/internal/echo"
	"github.com/omochice/toy-line-echo/internal/server"
)

func main() {
	// Parse command-line flags
	port := flag.String("port", ":8080", "Port to listen on for both TCP and WebSocket (e.g., :8080)")
	buffer := flag.Int("buffer", echo.DefaultBuffer, "Queue capacity between pipeline stages (0 for unbounded)")
	debug := flag.String("debug", "", "Optional address for the profiling endpoint (e.g., :6060)")
	flag.Parse()

	if *debug != "" {
		http.DefaultServeMux.Handle("/debug/fgprof", fgprof.Handler())
		go func() {
			log.Printf("Profiling endpoint on %s/debug/fgprof", *debug)
			if err := http.ListenAndServe(*debug, nil); err != nil {
				log.Printf("Profiling endpoint error: %v", err)
			}
		}()
	}

	// Create and start the echo server on a single port
	srv := server.New(*port, server.WithBuffer(*buffer))

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting echo server on %s...", *port)
		log.Printf("  Accepting one TCP socket or WebSocket connection")
		errChan <- srv.Start()
	}()

	// Wait for either completion or shutdown signal
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		srv.Stop()
	}

	log.Println("Echo server stopped")
}
