// Package seeder fills a server with plausible demo traffic through the
// public ingestion endpoint.
package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/beaver-systems/beaver/pkg/client"
)

// Options controls a seeding run.
type Options struct {
	BaseURL  string
	APIKey   string
	Channels []string
	Count    int
	// Pause between events, to mimic organic arrival.
	Interval time.Duration
}

// channelEvents maps each seeded channel to event names that fit it, so the
// demo data reads like a real product's log.
var channelEvents = map[string][]string{
	"signups":  {"user signed up", "waitlist joined", "email verified"},
	"payments": {"payment received", "payment failed", "subscription created", "subscription cancelled"},
	"errors":   {"unhandled exception", "api timeout", "rate limit tripped"},
	"activity": {"report exported", "dashboard viewed", "invite sent"},
}

// Run ingests opts.Count generated events round-robin across the channels.
// Returns how many events the server accepted.
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.Count <= 0 {
		return 0, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	channels := opts.Channels
	if len(channels) == 0 {
		for name := range channelEvents {
			channels = append(channels, name)
		}
	}

	c := client.New(opts.BaseURL)
	c.APIKey = opts.APIKey

	accepted := 0
	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}
		channel := channels[i%len(channels)]
		if _, err := c.Ingest(ctx, eventName(channel), channel, eventTags(channel)); err != nil {
			return accepted, fmt.Errorf("event %d: %w", i+1, err)
		}
		accepted++

		if opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return accepted, ctx.Err()
			case <-time.After(opts.Interval):
			}
		}
	}
	return accepted, nil
}

func eventName(channel string) string {
	if names, ok := channelEvents[channel]; ok {
		return names[rand.Intn(len(names))]
	}
	return gofakeit.HackerVerb() + " " + gofakeit.NounAbstract()
}

func eventTags(channel string) map[string]interface{} {
	tags := map[string]interface{}{
		"user":  gofakeit.Email(),
		"plan":  gofakeit.RandomString([]string{"free", "pro", "enterprise"}),
		"trial": gofakeit.Bool(),
	}
	switch channel {
	case "payments":
		tags["amount"] = gofakeit.Price(5, 500)
		tags["currency"] = gofakeit.CurrencyShort()
	case "errors":
		tags["status"] = gofakeit.HTTPStatusCodeSimple()
		tags["path"] = "/" + gofakeit.Word()
	case "signups":
		tags["referrer"] = gofakeit.RandomString([]string{"organic", "twitter", "newsletter", "friend"})
	}
	return tags
}
