package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/config"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	static := flag.String("static", "", "Directory of static files to serve at /")
	envFile := flag.String("env-file", ".env", "Env file with RAYTRACER_* settings")
	flag.Parse()

	// Only the S3 settings apply to the web server
	cfg, err := config.LoadFrom(*envFile, os.LookupEnv, nil)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	webServer := server.NewServer(*port)
	webServer.SetStaticDir(*static)

	if cfg.PublishEnabled() {
		publisher, err := output.NewS3Publisher(cfg.S3)
		if err != nil {
			log.Fatalf("Error configuring S3: %v", err)
		}
		webServer.SetPublisher(publisher)
		log.Printf("Publishing renders to s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
	}

	log.Printf("Sphere Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
