package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/szymekpro/ztpai-mfs/config"
	"github.com/szymekpro/ztpai-mfs/services"
)

func main() {
	path := flag.String("file", "seed.yaml", "fixture file to apply")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open %s: %v", *path, err)
	}
	defer f.Close()

	seed, err := services.LoadSeed(f)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := services.ApplySeed(context.Background(), db, seed); err != nil {
		log.Fatalf("apply seed: %v", err)
	}
	log.Printf("seed %s applied", *path)
}
