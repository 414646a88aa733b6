// Command rackd runs the rack controller daemon in the foreground.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
	"github.com/Aryan-Kanada/FSMFINAL/internal/daemonrun"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	socketFlag := flag.String("socket", "", "IPC socket path override")
	levelFlag := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, path, found, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "no config file at %s, using defaults\n", path)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel:   *levelFlag,
		SocketPath: *socketFlag,
	}); err != nil {
		log.Fatalf("rackd: %v", err)
	}
}
