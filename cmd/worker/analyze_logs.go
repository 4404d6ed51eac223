package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mapscan-dev/mapscan-backend/internal/service"
)

// RunAnalyzeLogs parses a log directory (users/ + services/) and runs the
// full detection pipeline over it.
//
//	worker analyze <logDir> [outDir] [title]
//
// Declared sets come from FRONTEND_SERVICES / DATABASE_SERVICES
// (comma-separated), the clock-skew shift from TIME_DELTA (go duration).
func RunAnalyzeLogs(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker analyze <logDir> [outDir] [title]")
	}
	logDir := args[0]
	out := "out"
	if len(args) > 1 {
		out = args[1]
	}
	title := "Call graph"
	if len(args) > 2 {
		title = args[2]
	}

	var delta time.Duration
	if v := os.Getenv("TIME_DELTA"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("bad TIME_DELTA: %v", err)
		}
		delta = d
	}

	res, err := service.AnalyzeLogs(logDir, service.Request{
		Title:            title,
		OutDir:           out,
		DOTBin:           os.Getenv("DOT_BIN"),
		TimeDelta:        delta,
		FrontendServices: splitEnvList("FRONTEND_SERVICES"),
		DatabaseServices: splitEnvList("DATABASE_SERVICES"),
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	printResult(res)
}

func splitEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func printResult(res *service.Result) {
	fmt.Printf("Run: %s\nWrote: %s\n", res.RunID, res.DOTPath)
	for _, n := range res.Notifications {
		fmt.Printf("%s: %s\n", n.User, n.Message)
	}
	fmt.Printf("Detections (%d):\n", len(res.Detections))
	for _, d := range res.Detections {
		fmt.Printf(" - [%s] %s: %s\n", d.Kind, d.Title, d.Summary)
	}
}
