package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <analyze|analyze-graph|dot> ...")
	}

	switch os.Args[1] {
	case "analyze":
		RunAnalyzeLogs(os.Args[2:])
	case "analyze-graph":
		RunAnalyzeGraph(os.Args[2:])
	case "dot":
		RunGraphDOT(os.Args[2:])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
