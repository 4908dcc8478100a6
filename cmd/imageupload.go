package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/server"
)

func main() {
	log.SetPrefix("imageupload: ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile | log.Lmsgprefix)

	configFile := flag.String("config", "config.yml", "Path to the configuration file (i.e., /etc/imageupload.yaml)")
	flag.Parse()

	if len(strings.Trim(*configFile, " ")) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	// IMAGEUPLOAD_* overrides may live in a local .env
	_ = godotenv.Load()

	log.Println("loading configuration...")
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	log.Println("starting http server...")
	if err := server.StartServer(cfg); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
