// Package timeapi provides a local HTTP time server for development and
// testing against the same payload shapes as public time APIs.
package timeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sweephand/internal/core"
)

// Server is a configurable HTTP time server.
type Server struct {
	mux   *http.ServeMux
	clock core.Clock
}

// NewServer creates a new time server with all endpoints configured. The
// clock can be faked for deterministic tests.
func NewServer(clock core.Clock) *Server {
	if clock == nil {
		clock = &core.RealClock{}
	}
	s := &Server{
		mux:   http.NewServeMux(),
		clock: clock,
	}
	s.registerHandlers()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// registerHandlers sets up all the endpoints.
func (s *Server) registerHandlers() {
	s.mux.HandleFunc("/api/time/zone", s.handleZone)
	s.mux.HandleFunc("/unix", s.handleUnix)
	s.mux.HandleFunc("/iso-utc", s.handleISOUTC)
	s.mux.HandleFunc("/iso-local", s.handleISOLocal)
	s.mux.HandleFunc("/calendar", s.handleCalendar)
	s.mux.HandleFunc("/epoch", s.handleEpoch)
	s.mux.HandleFunc("/skewed", s.handleSkewed)
	s.mux.HandleFunc("/status/", s.handleStatus)
	s.mux.HandleFunc("/delay/", s.handleDelay)
	s.mux.HandleFunc("/garbage", s.handleGarbage)
}

// zoneLocation resolves the timeZone query parameter, defaulting to UTC.
func (s *Server) zoneLocation(r *http.Request) (*time.Location, error) {
	zone := r.URL.Query().Get("timeZone")
	if zone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(zone)
}

// handleZone mirrors the payload shape of public zone-time APIs: calendar
// fields, a zone-less local timestamp, and the zone name.
func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	loc, err := s.zoneLocation(r)
	if err != nil {
		http.Error(w, "unknown time zone", http.StatusBadRequest)
		return
	}

	now := s.clock.Now().In(loc)
	response := map[string]interface{}{
		"year":         now.Year(),
		"month":        int(now.Month()),
		"day":          now.Day(),
		"hour":         now.Hour(),
		"minute":       now.Minute(),
		"seconds":      now.Second(),
		"milliSeconds": now.Nanosecond() / 1e6,
		"dateTime":     now.Format("2006-01-02T15:04:05.000"),
		"date":         now.Format("01/02/2006"),
		"time":         now.Format("15:04"),
		"timeZone":     loc.String(),
		"dayOfWeek":    now.Weekday().String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleUnix returns the current time as unix seconds.
func (s *Server) handleUnix(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"unixTime": %d}`, s.clock.Now().Unix())
}

// handleISOUTC returns an ISO-8601 timestamp pinned to UTC.
func (s *Server) handleISOUTC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"utcDateTime": %q}`, s.clock.Now().UTC().Format(time.RFC3339Nano))
}

// handleISOLocal returns a zone-less local timestamp for the requested zone.
func (s *Server) handleISOLocal(w http.ResponseWriter, r *http.Request) {
	loc, err := s.zoneLocation(r)
	if err != nil {
		http.Error(w, "unknown time zone", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"dateTime": %q}`, s.clock.Now().In(loc).Format("2006-01-02T15:04:05.000"))
}

// handleCalendar returns split calendar fields in UTC.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now().UTC()
	response := map[string]interface{}{
		"year":         now.Year(),
		"month":        int(now.Month()),
		"day":          now.Day(),
		"hour":         now.Hour(),
		"minute":       now.Minute(),
		"seconds":      now.Second(),
		"milliSeconds": now.Nanosecond() / 1e6,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleEpoch returns epoch milliseconds, the same shape a command provider
// prints.
func (s *Server) handleEpoch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"epoch_millis": %d}`, s.clock.Now().UnixMilli())
}

// handleSkewed returns a deliberately offset time for drift testing.
// Example: GET /skewed?offset_ms=-2500 reports a clock 2.5s behind.
func (s *Server) handleSkewed(w http.ResponseWriter, r *http.Request) {
	offsetMs, err := strconv.ParseInt(r.URL.Query().Get("offset_ms"), 10, 64)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"unixTime": %d}`, s.clock.Now().Add(time.Duration(offsetMs)*time.Millisecond).Unix())
}

// handleStatus returns the specified HTTP status code.
// Example: GET /status/503 returns 503 Service Unavailable
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/status/")
	code, err := strconv.Atoi(path)
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
	fmt.Fprintf(w, "%d %s", code, http.StatusText(code))
}

// handleDelay waits for the specified duration before answering with the
// current unix time.
// Example: GET /delay/100 waits 100ms
func (s *Server) handleDelay(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/delay/")
	ms, err := strconv.Atoi(path)
	if err != nil || ms < 0 {
		http.Error(w, "invalid delay", http.StatusBadRequest)
		return
	}

	time.Sleep(time.Duration(ms) * time.Millisecond)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"unixTime": %d}`, s.clock.Now().Unix())
}

// handleGarbage returns valid JSON with no recognizable time field.
func (s *Server) handleGarbage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"weather":"sunny","humidity":42}`)
}
