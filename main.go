package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	bindFlag := flag.String("bind", "", "Override bind address")
	portFlag := flag.Int("port", 0, "Override port")
	intervalFlag := flag.Int("interval", 0, "Override sampling interval in seconds")
	updateFlag := flag.Bool("update", false, "Update to the latest release and exit")
	flag.Parse()

	if *updateFlag {
		if err := selfUpdate(); err != nil {
			log.Fatalf("Update failed: %v", err)
		}
		log.Println("Updated successfully")
		return
	}

	cfgPath := *configPath
	if cfgPath == "" {
		home, _ := os.UserHomeDir()
		cfgPath = filepath.Join(home, ".rpi-monitor", "agent.yaml")
	}

	config, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *bindFlag != "" {
		config.Bind = *bindFlag
	}
	if *portFlag != 0 {
		config.Port = *portFlag
	}
	if *intervalFlag > 0 {
		config.IntervalSeconds = *intervalFlag
	}

	state := newSharedState()
	sampler := newSampler(newBuilder(config), state, config.Interval())
	srv := newServer(config, state)
	sampler.onPublish = srv.Broadcast
	sampler.Start()

	listenAddr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", listenAddr, err)
	}

	log.Printf("rpi-monitor %s listening on %s", version, listenAddr)
	log.Printf("Sampling every %s, top %d processes", config.Interval(), config.ProcessLimit)
	if config.Token == "" {
		log.Printf("WARNING: No auth token configured")
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		stopped := make(chan struct{})
		go func() {
			sampler.Stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			log.Println("Sampler did not stop in time")
		}
		listener.Close()
		os.Exit(0)
	}()

	if err := http.Serve(listener, srv.Handler()); err != nil {
		log.Fatalf("HTTP serve: %v", err)
	}
}
