package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jllopis/council/demoCouncil/internal/demo"
)

func main() {
	log.SetFlags(log.LstdFlags)

	question := flag.String("q", "", "council question")
	rounds := flag.Int("rounds", 2, "debate rounds")
	synthesizer := flag.String("synthesizer", getenv("COUNCIL_SYNTHESIZER", "openai"), "preferred synthesizer backend")
	timeoutSeconds := flag.Int("timeout", 90, "per-backend timeout in seconds")
	outputDir := flag.String("output", getenv("COUNCIL_OUTPUT_DIR", "./debates"), "transcript directory")
	mock := flag.Bool("mock", envBool("COUNCIL_DEMO_MOCK"), "fake backends without API keys so the demo runs offline")
	flag.Parse()

	text := strings.TrimSpace(*question)
	if text == "" && flag.NArg() > 0 {
		text = strings.TrimSpace(strings.Join(flag.Args(), " "))
	}
	if text == "" {
		text = "Should a five-person startup adopt Kubernetes, or stay on a PaaS until scale forces the move?"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, skipped, err := demo.Backends(ctx, demo.Options{
		Mock:    *mock,
		Timeout: time.Duration(*timeoutSeconds) * time.Second,
	})
	for _, name := range skipped {
		log.Printf("WARN: %s skipped (no API key; rerun with -mock to fake it)", name)
	}
	if err != nil {
		log.Fatalf("demo: %v", err)
	}

	if _, err := demo.Run(ctx, demo.RunConfig{
		Backends:    backends,
		Question:    text,
		Rounds:      *rounds,
		Synthesizer: *synthesizer,
		OutputDir:   *outputDir,
		Out:         os.Stdout,
	}); err != nil && ctx.Err() == nil {
		log.Fatalf("demo run: %v", err)
	}
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envBool(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false
	}
	value = strings.ToLower(value)
	return value == "1" || value == "true" || value == "yes"
}
