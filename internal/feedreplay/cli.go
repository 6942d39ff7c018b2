package feedreplay

import "os"

// ShowHelp prints usage information for the feed replay tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`courtside feed replay
=====================

Generates seeded synthetic game feeds, posts them out of order in
concurrent batches (re-sending a fraction), then checks the groups,
moments and resume endpoints against the generated timelines.

Usage:
  go run ./cmd/feed-replay [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -league string
        League of the generated games, NBA or NHL (default "NBA")
  -games int
        Number of games (default 4)
  -events int
        Events per game (default 400)
  -batch int
        Events per POST (default 25)
  -resend float
        Fraction of batches posted twice (default 0.1)
  -seed int
        Generator seed (default 1)
  -workers int
        Number of concurrent submitters (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        How long to wait for ingestion to settle (default 30s)
  -output string
        Write the generated feeds to this JSON file
  -verbose
        Log every batch
  -help
        Show this help message

Examples:
  go run ./cmd/feed-replay -games 10 -events 600 -workers 16
  go run ./cmd/feed-replay -league NHL -seed 42 -output out/feeds.json
`)
}
