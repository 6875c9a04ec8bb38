package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// Container liveness probe: exits 0 when the server answers its health
// endpoint, 1 otherwise.
func main() {
	addr := os.Getenv("GLOOMDELVE_HEALTH_URL")
	if addr == "" {
		addr = "http://localhost:8080/healthz"
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "healthcheck: status", resp.StatusCode)
		os.Exit(1)
	}
}
