package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"card-shoggoths-server/internal/config"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var command = flag.String("c", "list", "specifies the command (list, show, teardown, purge)")
var sessionID = flag.String("id", "", "the session ID for show and teardown")
var yes = flag.Bool("y", false, "do not ask for confirmation")

func main() {
	flag.Parse()

	cfg := config.Instance()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, "")
	if err != nil {
		logrus.WithError(err).Fatal("could not open the session store")
	}
	defer st.Close()

	if cfg.Store.Driver == store.DriverMemory || cfg.Store.Driver == "" {
		logrus.Warn("the memory store is empty outside of a running server")
	}

	switch *command {
	case "list":
		list(ctx, st)
	case "show":
		show(ctx, st, requireID())
	case "teardown":
		id := requireID()
		if !confirm(fmt.Sprintf("Delete session %s (y/N)", id)) {
			return
		}

		if err := st.Delete(ctx, id); err != nil {
			logrus.WithError(err).Fatal("could not delete session")
		}

		fmt.Printf("Deleted session %s\n", id)
	case "purge":
		cutoff := time.Now().Add(-cfg.Session.TTL)
		if !confirm(fmt.Sprintf("Delete every session not updated since %s (y/N)", cutoff.Format(time.RFC3339))) {
			return
		}

		n, err := st.DeleteExpired(ctx, cutoff)
		if err != nil {
			logrus.WithError(err).Fatal("could not purge sessions")
		}

		fmt.Printf("Deleted %d sessions\n", n)
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func list(ctx context.Context, st store.Store) {
	sessions, err := st.List(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("could not list sessions")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCREATED\tUPDATED")
	for _, s := range sessions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}

func show(ctx context.Context, st store.Store, id string) {
	session, err := st.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logrus.Fatalf("no session with ID %s", id)
	} else if err != nil {
		logrus.WithError(err).Fatal("could not load session")
	}

	var rec shoggoth.Record
	if err := json.Unmarshal(session.Data, &rec); err != nil {
		logrus.WithError(err).Fatal("could not decode session")
	}

	fmt.Printf("%s (%d sanity) vs %s (%d sanity)\n", rec.Human.Name, rec.Human.Sanity, rec.Opponent.Name, rec.Opponent.Sanity)
	if rec.Round != nil {
		fmt.Printf("Round %d, phase %s\n", rec.Round.RoundNumber, rec.Round.Phase)
	}

	if rec.ESP != nil {
		fmt.Printf("ESP round active until %s\n", rec.ESP.Deadline.Format(time.RFC3339))
	}

	fmt.Printf("Last: %s\n", rec.Narration)
}

func requireID() string {
	if *sessionID == "" {
		logrus.Fatal("-id is required")
	}

	return *sessionID
}

func confirm(question string) bool {
	if *yes {
		return true
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintln(os.Stderr, "not a terminal, pass -y to confirm")
		return false
	}

	answer, err := getInput(question)
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	return answer != "" && strings.ToLower(answer)[0] == 'y'
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}
