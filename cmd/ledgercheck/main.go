// Command ledgercheck opens the configured result ledgers and prints the
// standings of the players named on the command line plus the latest games.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	appcfg "github.com/park285/chess-duel/internal/config"
	"github.com/park285/chess-duel/internal/obslog"
	"github.com/park285/chess-duel/internal/results"
)

var errNoLedger = errors.New("no ledger opened: set RESULTS_DIR, REDIS_URL or DATABASE_URL")

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	code := run(os.Args[1:], os.Stdout)
	obslog.Sync()
	os.Exit(code)
}

func run(args []string, w io.Writer) int {
	cfg, err := appcfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	set := results.Open(ctx, results.OpenOptions{
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		Dir:         cfg.ResultsDir,
		RecentLimit: cfg.ResultsRecentLimit,
		TTL:         time.Duration(cfg.ResultsTTLSec) * time.Second,
		NoFallback:  true,
	})
	defer set.Close()

	players := args
	if len(players) == 0 {
		players = []string{cfg.WhiteName, cfg.BlackName}
	}
	if err := report(ctx, w, set, players); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func report(ctx context.Context, w io.Writer, set *results.Set, players []string) error {
	if len(set.Ledgers) == 0 {
		return errNoLedger
	}
	for _, l := range set.Ledgers {
		fmt.Fprintf(w, "== %T\n", l)
		for _, p := range players {
			st, err := l.Standings(ctx, p)
			if err != nil {
				fmt.Fprintf(w, "standings %s: error: %v\n", p, err)
				continue
			}
			fmt.Fprintf(w, "%-16s played=%d won=%d lost=%d drawn=%d last=%s\n",
				strings.TrimSpace(p), st.GamesPlayed, st.Wins, st.Losses, st.Draws, st.LastResult)
		}
		recent, err := l.Recent(ctx, 5)
		if err != nil {
			fmt.Fprintf(w, "recent: error: %v\n", err)
			continue
		}
		for _, r := range recent {
			fmt.Fprintf(w, "%s  %s  %-8s vs %-8s %s (%s, %d plies)\n",
				r.EndedAt.Format(time.RFC3339), r.SessionID, r.White, r.Black, r.Result, r.Method, r.Plies)
		}
	}
	return nil
}
