// Command timesource serves or prints authoritative time.
//
// In serve mode it runs a local HTTP time server with the same payload
// shapes as public time APIs, useful for development and failure testing:
//
//	timesource -serve -port 8080
//
// Without -serve it prints the current time as {"epoch_millis": ...} on
// stdout, so it can be wired in directly as a command provider. An optional
// positional argument names the zone (informational; the epoch is absolute):
//
//	timesource Europe/Rome
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweephand/timeapi"
)

func main() {
	serve := flag.Bool("serve", false, "run a local HTTP time server")
	port := flag.Int("port", 8080, "port to listen on (serve mode)")
	host := flag.String("host", "localhost", "host to bind to (serve mode)")
	flag.Parse()

	if !*serve {
		if zone := flag.Arg(0); zone != "" {
			if _, err := time.LoadLocation(zone); err != nil {
				fmt.Fprintf(os.Stderr, "error: unknown time zone %q\n", zone)
				os.Exit(1)
			}
		}
		fmt.Printf("{\"epoch_millis\": %d}\n", time.Now().UnixMilli())
		return
	}

	server := timeapi.NewServer(nil)
	addr := fmt.Sprintf("%s:%d", *host, *port)

	fmt.Println("Sweephand Time Server")
	fmt.Println("=====================")
	fmt.Printf("Listening on http://%s\n\n", addr)
	fmt.Println("Endpoints:")
	fmt.Println("  GET /api/time/zone  - Full zone payload (?timeZone=Etc/UTC)")
	fmt.Println("  GET /unix           - Unix seconds")
	fmt.Println("  GET /iso-utc        - ISO-8601 timestamp in UTC")
	fmt.Println("  GET /iso-local      - Zone-less local timestamp (?timeZone=...)")
	fmt.Println("  GET /calendar       - Split calendar fields in UTC")
	fmt.Println("  GET /epoch          - Epoch milliseconds")
	fmt.Println("  GET /skewed         - Deliberately offset time (?offset_ms=-2500)")
	fmt.Println("  GET /status/{code}  - Return specific status code")
	fmt.Println("  GET /delay/{ms}     - Delay response by milliseconds")
	fmt.Println("  GET /garbage        - Valid JSON with no time field")
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		os.Exit(0)
	}()

	log.Fatal(http.ListenAndServe(addr, server.Handler()))
}
