package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wzrazsh/dialogue-recorder/internal"
	"github.com/wzrazsh/dialogue-recorder/testutil"
)

func TestListenCommand_RecordsFromStdin(t *testing.T) {
	path := testutil.TempDBPath(t)
	dbPath = path
	defer func() { dbPath = "" }()

	input := strings.Join([]string{
		"User: could you check the listener wiring for me",
		"npm install finished in 3s", // noise, dropped
		"",                           // empty, dropped
	}, "\n")

	rootCmd.SetArgs([]string{"listen", "--session", "cmd-test-session"})
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetIn(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(listen) error = %v", err)
	}

	store := internal.NewStore(path)
	defer func() { _ = store.Close() }()

	records, err := store.SessionRecords(context.Background(), "cmd-test-session")
	if err != nil {
		t.Fatalf("SessionRecords() error = %v", err)
	}
	// Session start + one accepted dialogue line + session stop.
	if len(records) != 3 {
		t.Fatalf("got %d record(s), want 3: %+v", len(records), records)
	}
	if records[0].Text != "debug session started: observed session" {
		t.Errorf("first record = %q, want the session start template", records[0].Text)
	}
	if records[1].Role != internal.RoleUser || records[1].Text != "could you check the listener wiring for me" {
		t.Errorf("middle record = %+v, want the classified user line", records[1])
	}
	if records[2].Text != "debug session stopped: observed session" {
		t.Errorf("last record = %q, want the session stop template", records[2].Text)
	}
}
