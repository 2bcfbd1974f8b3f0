// Command probe queries a captive-portal gateway the way an operating
// system's connectivity checker would.
//
// It performs the RFC 8908 discovery request and prints the captive verdict
// and portal URL. With --accept it then completes the portal flow and probes
// again, which should flip the verdict:
//
//	go run ./cmd/probe --gateway=http://192.168.1.1:8000 --accept
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/technicalnoodles/captive-portal/portal"
)

func main() {
	var (
		gatewayURL = flag.String("gateway", "http://localhost:8000", "Gateway base URL")
		accept     = flag.Bool("accept", false, "Accept the portal terms after probing")
	)
	flag.Parse()

	base := strings.TrimSuffix(*gatewayURL, "/")
	client := &http.Client{Timeout: 10 * time.Second}

	state, err := probe(client, base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Probe error: %v\n", err)
		os.Exit(1)
	}
	printState(state)

	if !*accept {
		return
	}

	resp, err := client.Post(base+portal.AcceptPath, "", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Accept error: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		fmt.Fprintf(os.Stderr, "Accept returned status %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("Accepted portal terms")

	state, err = probe(client, base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Re-probe error: %v\n", err)
		os.Exit(1)
	}
	printState(state)
}

func probe(client *http.Client, base string) (*portal.CaptiveState, error) {
	resp, err := client.Get(base + portal.APIPath)
	if err != nil {
		return nil, fmt.Errorf("fetch probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var state portal.CaptiveState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode probe response: %w", err)
	}
	return &state, nil
}

func printState(state *portal.CaptiveState) {
	if state.Captive {
		fmt.Printf("Captive: yes (portal at %s)\n", state.UserPortalURL)
	} else {
		fmt.Printf("Captive: no\n")
	}
}
