package main

import (
	"fmt"
	"log"

	"github.com/mapscan-dev/mapscan-backend/internal/graph/export"
	"github.com/mapscan-dev/mapscan-backend/internal/ingest/parser"
	"github.com/mapscan-dev/mapscan-backend/internal/utils"
)

// RunGraphDOT renders a graph JSON file as DOT without running detection.
//
//	worker dot <graph.json> [out.dot]
func RunGraphDOT(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker dot <graph.json> [out.dot]")
	}

	g, err := parser.ParseGraphJSON(args[0])
	if err != nil {
		log.Fatalf("parse graph: %v", err)
	}

	dot := export.ToDOT(g, "")
	if len(args) > 1 {
		if err := utils.WriteFile(args[1], dot); err != nil {
			log.Fatalf("write dot: %v", err)
		}
		fmt.Printf("Wrote: %s\n", args[1])
		return
	}
	fmt.Print(dot)
}
