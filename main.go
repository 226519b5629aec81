package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Project-Sylos/Helodata/sdk"
)

func main() {
	var (
		config = flag.String("config", "", "Configuration file path (default: built-in 512 x 400 layout)")
		help   = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	h, err := open(*config)
	if err != nil {
		log.Fatalf("Failed to initialize Helodata: %v", err)
	}
	defer h.Close()

	cfg := h.GetConfig()
	fmt.Printf("Writing %d blocks of %d bytes to %s\n", cfg.Block.BlockCount, cfg.Block.BlockSize, cfg.Block.OutputPath)

	run, err := h.Generate()
	if err != nil {
		h.Close()
		log.Fatalf("Failed to generate %s: %v", cfg.Block.OutputPath, err)
	}

	fmt.Printf("Wrote %d bytes in %s\n", run.TotalBytes, run.FinishedAt.Sub(run.StartedAt))
	fmt.Printf("SHA256: %s\n", run.Checksum)
	if h.CatalogEnabled() {
		fmt.Printf("Recorded run %s\n", run.ID)
	}
}

func open(configPath string) (*sdk.Helodata, error) {
	if configPath == "" {
		return sdk.NewWithDefaults()
	}
	fmt.Printf("Loading configuration from: %s\n", configPath)
	return sdk.New(configPath)
}

func showHelp() {
	fmt.Println("Helodata - Deterministic Test Data Generator")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Writes N fixed-size blocks, each holding the tag \"helodata\", its")
	fmt.Println("little-endian uint32 index and words from an LCG seeded with that index.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  go run main.go [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string")
	fmt.Println("        Configuration file path (default: data.dat, 400 blocks of 512 bytes)")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run main.go")
	fmt.Println("  go run main.go -config configs/custom.json")
	fmt.Println()
	fmt.Println("API Server:")
	fmt.Println("  go run cmd/api/main.go [config-file]")
}
