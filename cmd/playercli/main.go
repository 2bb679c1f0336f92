// Package main provides the player CLI entry point for driving a running host.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	apiconnect "github.com/osa030/rcplayer/internal/api/connect"
	"github.com/osa030/rcplayer/internal/app/builder"
	"github.com/osa030/rcplayer/internal/app/notification"
	"github.com/osa030/rcplayer/internal/infra/backend"
)

var (
	app    = kingpin.New("rcplayer-cli", "rcplayer playback host client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("RCPLAYER_SERVER").String()

	// build command
	buildCmd  = app.Command("build", "Build a new session from a seed URL")
	buildSeed = buildCmd.Arg("seed-url", "Seed URL").Required().String()
	buildN    = buildCmd.Arg("n", "Number of items (blank uses the server default)").String()

	// navigation commands
	nextCmd     = app.Command("next", "Advance to the next item")
	prevCmd     = app.Command("prev", "Go back to the previous item")
	selectCmd   = app.Command("select", "Jump to an item")
	selectIndex = selectCmd.Arg("index", "Zero-based queue index").Required().Int()

	// feedback commands
	likeCmd  = app.Command("like", "Like the current item")
	skipCmd  = app.Command("skip", "Skip the current item")
	blockCmd = app.Command("block", "Block the current item")

	// misc commands
	openCmd      = app.Command("open", "Open the current item's page in a new tab")
	stateCmd     = app.Command("state", "Show the current session")
	subscribeCmd = app.Command("subscribe", "Watch page commands")

	// queue command (talks to the backend directly, no host needed)
	queueCmd     = app.Command("queue", "Build a session on the backend and print its queue")
	queueBackend = queueCmd.Flag("backend", "Recommendation backend base URL").Default("http://localhost:8000").Envar("RCPLAYER_BACKEND_URL").String()
	queueProfile = queueCmd.Flag("profile", "Backend profile").Envar("RCPLAYER_PROFILE").String()
	queueOut     = queueCmd.Flag("out", "Write the session JSON to this file").String()
	queueSeed    = queueCmd.Arg("seed-url", "Seed URL").Required().String()
	queueN       = queueCmd.Arg("n", "Number of items").Default("25").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := apiconnect.NewPlayerClient(http.DefaultClient, *server)

	ctx := context.Background()

	// Execute command
	var err error
	switch command {
	case buildCmd.FullCommand():
		err = build(ctx, client, *buildSeed, *buildN)
	case nextCmd.FullCommand():
		err = printState(client.Next(ctx))
	case prevCmd.FullCommand():
		err = printState(client.Prev(ctx))
	case selectCmd.FullCommand():
		err = printState(client.Select(ctx, *selectIndex))
	case likeCmd.FullCommand():
		err = sendFeedback(ctx, client, "like")
	case skipCmd.FullCommand():
		err = sendFeedback(ctx, client, "skip")
	case blockCmd.FullCommand():
		err = sendFeedback(ctx, client, "block")
	case openCmd.FullCommand():
		err = openExternal(ctx, client)
	case stateCmd.FullCommand():
		err = printState(client.GetState(ctx))
	case subscribeCmd.FullCommand():
		err = subscribe(ctx, client)
	case queueCmd.FullCommand():
		err = queue(ctx, *queueBackend, *queueProfile, *queueSeed, *queueN, *queueOut)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func build(ctx context.Context, client *apiconnect.PlayerClient, seed, n string) error {
	info, err := client.BuildSession(ctx, seed, n)
	if err != nil {
		return err
	}
	fmt.Printf("Session built: %s\n", info.SessionID)
	return printState(info, nil)
}

func sendFeedback(ctx context.Context, client *apiconnect.PlayerClient, action string) error {
	resp, err := client.Feedback(ctx, action)
	if err != nil {
		return err
	}
	if !resp.Sent {
		fmt.Println("Nothing is playing; feedback not sent")
		return nil
	}
	fmt.Printf("Feedback sent: %s\n", action)
	return printState(resp.State, nil)
}

func openExternal(ctx context.Context, client *apiconnect.PlayerClient) error {
	url, err := client.OpenExternal(ctx)
	if err != nil {
		return err
	}
	if url == "" {
		fmt.Println("Nothing is playing")
		return nil
	}
	fmt.Printf("Opened: %s\n", url)
	return nil
}

func printState(info *apiconnect.StateInfo, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("State: %s\n", info.State)
	if info.SessionID == "" {
		return nil
	}
	fmt.Printf("Session: %s (seed %s)\n", info.SessionID, info.SeedURL)
	fmt.Printf("Position: %d / %d\n", info.Index+1, info.Len)
	if len(info.Items) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(info.Items))
	for _, it := range info.Items {
		marker := ""
		if it.Current {
			marker = ">"
		}
		rows = append(rows, []string{marker, strconv.Itoa(it.Index), it.VideoID, it.Title, strings.Join(it.Tags, ", ")})
	}
	return renderTable(os.Stdout, []string{"", "#", "Video", "Title", "Tags"}, rows)
}

func subscribe(ctx context.Context, client *apiconnect.PlayerClient) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stream, err := client.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Println("Subscribed to page commands. Press Ctrl+C to exit.")

	for stream.Receive() {
		printCommand(stream.Msg())
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printCommand(c *notification.Command) {
	fmt.Printf("[Sequence: %d] %s", c.SequenceNo, c.Type)
	switch c.Type {
	case notification.CommandInitialState:
		if c.State != nil {
			fmt.Printf(" active=%v session=%s index=%d len=%d replay=%d", c.State.Active, c.State.SessionID, c.State.Index, c.State.Len, len(c.State.Replay))
		}
	case notification.CommandCreatePlayer, notification.CommandLoadVideo:
		fmt.Printf(" handle=%s video=%s", c.Handle, c.VideoID)
	case notification.CommandDestroyPlayer:
		fmt.Printf(" handle=%s", c.Handle)
	case notification.CommandSetFrameSrc, notification.CommandLoadAPI, notification.CommandOpen:
		fmt.Printf(" url=%s", c.URL)
	case notification.CommandRender:
		fmt.Printf(" target=%s bytes=%d", c.Target, len(c.HTML))
	case notification.CommandBuildControl:
		if c.Enabled != nil {
			fmt.Printf(" enabled=%v", *c.Enabled)
		}
	case notification.CommandAlert:
		fmt.Printf(" message=%q", c.Message)
	}
	fmt.Println()
}

func queue(ctx context.Context, baseURL, profile, seed, nInput, out string) error {
	be, err := backend.New(backend.Config{BaseURL: baseURL, Profile: profile, Timeout: 30 * time.Second})
	if err != nil {
		return err
	}

	s, err := be.BuildSession(ctx, seed, builder.ParseN(nInput, builder.DefaultN))
	if err != nil {
		return err
	}

	fmt.Printf("Session: %s (seed %s, %d items)\n", s.SessionID, s.SeedURL, s.Len())
	rows := make([][]string, 0, s.Len())
	for i := range s.Items {
		it := &s.Items[i]
		score := ""
		if it.Score != nil {
			score = strconv.FormatFloat(*it.Score, 'f', 3, 64)
		}
		rows = append(rows, []string{strconv.Itoa(i), it.VideoID, it.DisplayTitle(), strings.Join(it.TagList(), ", "), score})
	}
	if err := renderTable(os.Stdout, []string{"#", "Video", "Title", "Tags", "Score"}, rows); err != nil {
		return err
	}

	if out == "" {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(lo.ToAnySlice(header)...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
