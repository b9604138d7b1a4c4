// Command search lists transactions from the API, optionally filtered by a query.
package main

import (
	"context"
	"dtmoney-server/src/client"
	"dtmoney-server/src/form"
	"dtmoney-server/src/logger"
	"dtmoney-server/src/store"
	"dtmoney-server/src/view"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the transactions API")
	query := flag.String("q", "", "search transactions whose description contains this text")
	token := flag.String("token", os.Getenv("DTMONEY_TOKEN"), "bearer token for write requests")
	user := flag.String("user", "", "log in as this operator instead of passing -token")
	timeout := flag.Duration("timeout", 10*time.Second, "overall request timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: level, Pretty: true}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	c := client.New(*apiURL, client.WithToken(*token))
	err := login(ctx, c, *user, os.Getenv("DTMONEY_PASSWORD"))
	if err == nil {
		err = run(ctx, c, *query, isSet("q"))
	}
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		os.Exit(1)
	}
}

func isSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// login replaces the client's token when user is set. The password is read
// from DTMONEY_PASSWORD so it never shows up in the process list.
func login(ctx context.Context, c *client.Client, user, password string) error {
	if user == "" {
		return nil
	}
	if _, err := c.Login(ctx, user, password); err != nil {
		return fmt.Errorf("login as %s: %w", user, err)
	}
	log.Debug().Str("user", user).Msg("logged in")
	return nil
}

func run(ctx context.Context, c *client.Client, query string, search bool) error {
	s := store.New(c, store.WithSequenceGuard())
	defer s.Unmount()

	if err := s.Mount(ctx); err != nil {
		return err
	}
	table := view.NewTable(os.Stdout, s)
	defer table.Close()

	if search {
		f := form.NewSearchForm(s)
		defer f.Close()
		if err := f.Submit(ctx, form.Query(query)); err != nil {
			return err
		}
	} else {
		table.Render()
	}

	fmt.Println()
	return view.WriteSummary(os.Stdout, s.Summary())
}
