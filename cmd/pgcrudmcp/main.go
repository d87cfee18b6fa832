package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "initdb":
		if err := runInitDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("pgcrudmcp — PostgreSQL CRUD MCP Server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pgcrudmcp serve     Start the MCP and JSON-RPC servers")
	fmt.Println("  pgcrudmcp initdb    Create and seed the demo items table")
	fmt.Println("  pgcrudmcp --help    Show this help message")
}
