package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/whosonfirst/go-reader-github/v2"
	_ "gocloud.dev/runtimevar/constantvar"
	_ "gocloud.dev/runtimevar/filevar"

	"github.com/sfomuseum/go-sfomuseum-spots/app/renderer"
)

func main() {

	ctx := context.Background()

	// Environment variables (SPOTS_*) may be defined in a local .env file
	_ = godotenv.Load(".env")

	err := renderer.Run(ctx)

	if err != nil {
		log.Fatalf("Failed to render map, %v", err)
	}
}
