package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"cryofleet/internal/config"
	"cryofleet/internal/controllers"
	"cryofleet/internal/fleet"
	"cryofleet/internal/logger"
	"cryofleet/internal/middleware"
	"cryofleet/internal/recalc"
	"cryofleet/internal/routes"
	"cryofleet/internal/routing"
	"cryofleet/internal/trip"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Core services
	store := trip.NewRepo(config.GetDB())
	resolver := routing.NewOSRMResolver(os.Getenv("OSRM_BASE_URL"))
	sequencer := trip.NewSequencer(resolver, store)

	// Background recompute of PLANNED trips after tanker relocations
	worker := recalc.NewWorker(nil)
	tripSvc := trip.NewService(store, sequencer, worker)
	worker.SetRecomputer(tripSvc)
	worker.Start(context.Background())

	fleetSvc := fleet.NewService(store)

	// Setup Gin router
	r := routes.SetupRouter(
		controllers.NewTankerController(fleetSvc),
		controllers.NewTripController(tripSvc),
	)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
