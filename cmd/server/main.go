package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terrasim/internal/config"
	"terrasim/internal/engine"
	"terrasim/internal/httpapi"
	"terrasim/internal/store"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var chkStore *store.Store
	if cfg.DBPath != "" {
		chkStore, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open checkpoint store: %v", err)
		}
		defer chkStore.Close()
	}

	world, err := engine.InitWorld(cfg.MasterSeed, cfg.World, cfg.MaxResidentChunks)
	if err != nil {
		log.Fatalf("failed to initialize world: %v", err)
	}
	log.Printf("world initialized: seed=%d oceanFraction~%.2f", cfg.MasterSeed, oceanFraction(world))

	sched, err := engine.StartEngine(cfg.TickInterval(), cfg.Hydrology)
	if err != nil {
		log.Fatalf("failed to start engine: %v", err)
	}
	defer engine.StopEngine()

	api := httpapi.New(httpapi.Config{Addr: cfg.HTTPAddr, APIKey: cfg.APIKey})

	go func() {
		if err := api.Start(); err != nil {
			log.Printf("httpapi error: %v", err)
		}
	}()

	log.Printf("terrasim server running, httpapi on %s, scheduler step %d", cfg.HTTPAddr, sched.StepNumber())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := api.Stop(ctx); err != nil {
		log.Printf("httpapi shutdown error: %v", err)
	}

	log.Println("server stopped")
}

func oceanFraction(w *engine.World) float64 {
	land := 0
	mask := w.Generator.Metadata().CoarseLandMask
	for _, v := range mask {
		if v == 1 {
			land++
		}
	}
	return 1 - float64(land)/float64(len(mask))
}
