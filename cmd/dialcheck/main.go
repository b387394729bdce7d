// Command dialcheck prints the hand angles the simulator would render for a
// given wall time and speed, plus how long the second hand needs to reach
// 12 o'clock. Handy for checking dial alignment without running the clock.
//
//	dialcheck -time 2024-01-01T12:30:45Z -speed 2
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"sweephand/internal/clockface"
)

func main() {
	timeStr := flag.String("time", "", "wall time, RFC 3339 (default: now)")
	zone := flag.String("zone", "Etc/UTC", "IANA time zone for display")
	speed := flag.Float64("speed", 1, "second-hand speed multiplier")
	flag.Parse()

	loc, err := time.LoadLocation(*zone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: unknown time zone %q\n", *zone)
		os.Exit(1)
	}

	t := time.Now().In(loc)
	if *timeStr != "" {
		parsed, err := time.Parse(time.RFC3339, *timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid -time: %v\n", err)
			os.Exit(1)
		}
		t = parsed.In(loc)
	}

	if *speed <= 0 {
		fmt.Fprintln(os.Stderr, "error: -speed must be positive")
		os.Exit(1)
	}

	hands := clockface.NewHands(*speed)
	hands.OnAnchor(t)

	sec := hands.SecondAngle(0)
	untilTop := (360 - sec) / 360 * 60 / *speed
	if math.Abs(sec) < 1e-9 {
		untilTop = 0
	}

	fmt.Printf("time:        %s\n", t.Format(time.RFC3339))
	fmt.Printf("speed:       %gx\n", *speed)
	fmt.Printf("second hand: %7.3f deg\n", sec)
	fmt.Printf("minute hand: %7.3f deg\n", clockface.MinuteAngle(t))
	fmt.Printf("hour hand:   %7.3f deg\n", clockface.HourAngle(t))
	fmt.Printf("reaches 12 o'clock in %.3fs\n", untilTop)
}
