package main

import (
	"log"
	"os"
)

// @title Route Vending Table Grid API
// @version 1.0
// @description Backend for the route vending delivery table.
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
