package main

import (
	"log"
	"os"

	"github.com/mapscan-dev/mapscan-backend/internal/service"
)

// RunAnalyzeGraph runs the graph detectors over a prebuilt call graph.
//
//	worker analyze-graph <graph.json> [outDir] [title]
func RunAnalyzeGraph(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker analyze-graph <graph.json> [outDir] [title]")
	}
	path := args[0]
	out := "out"
	if len(args) > 1 {
		out = args[1]
	}
	title := "Call graph"
	if len(args) > 2 {
		title = args[2]
	}

	res, err := service.AnalyzeGraphJSON(path, service.Request{
		Title:            title,
		OutDir:           out,
		DOTBin:           os.Getenv("DOT_BIN"),
		FrontendServices: splitEnvList("FRONTEND_SERVICES"),
		DatabaseServices: splitEnvList("DATABASE_SERVICES"),
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	printResult(res)
}
