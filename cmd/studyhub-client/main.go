package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"studyhub/internal/userclient"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "studyhub-service base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	flag.Parse()

	err := userclient.Run(context.Background(), os.Stdin, os.Stdout, userclient.Config{
		ServerURL:   *server,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
