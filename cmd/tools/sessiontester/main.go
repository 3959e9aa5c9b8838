package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/pion/webrtc/v4"

	"github.com/rehearsehq/rehearse/internal/analysis/assessment"
	"github.com/rehearsehq/rehearse/internal/audio"
	"github.com/rehearsehq/rehearse/internal/config"
	"github.com/rehearsehq/rehearse/internal/model/character"
	"github.com/rehearsehq/rehearse/internal/model/module"
	transcriptModel "github.com/rehearsehq/rehearse/internal/model/transcript"
	"github.com/rehearsehq/rehearse/internal/service/agent"
	"github.com/rehearsehq/rehearse/internal/service/notes"
	"github.com/rehearsehq/rehearse/internal/service/realtime"
	transcriptService "github.com/rehearsehq/rehearse/internal/service/transcript"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.Realtime.Enabled() {
		log.Fatal("realtime provider not configured, set REALTIME_API_KEY first")
	}

	audioPath := flag.String("audio", "", "8 kHz mono WAV file to stream as the trainee's voice")
	characterID := flag.String("character", "skeptical-customer", "character to rehearse against")
	moduleID := flag.Int64("module", 0, "module id for note taking (0 disables notes)")
	duration := flag.Duration("duration", 60*time.Second, "how long to keep the session open")
	transport := flag.String("transport", "webrtc", "control transport: webrtc or ws")
	notesText := flag.String("notes", "", "note text to append through the agent tool")
	outputPath := flag.String("out", "", "WAV file for the agent's audio (webrtc transport only)")
	backendURL := flag.String("backend", "", "backend base URL for remote note drafts (empty keeps notes in-process)")

	flag.Parse()

	characterStore := character.NewMemoryStore(character.Seed())
	selected, ok := characterStore.FindByID(*characterID)
	if !ok {
		log.Fatalf("unknown character %q", *characterID)
	}

	issuer := realtime.NewTokenIssuer(cfg.Realtime.SessionURL, cfg.Realtime.APIKey, cfg.Realtime.Model, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *duration+time.Duration(cfg.Realtime.HandshakeTimeout)*time.Second)
	defer cancel()

	var entries []transcriptModel.Entry
	switch *transport {
	case "webrtc":
		entries = runWebRTC(ctx, cfg, issuer, selected, *audioPath, *outputPath, *duration)
	case "ws":
		entries = runWebSocket(ctx, cfg, issuer, selected, *duration)
	default:
		log.Fatalf("unknown transport %q, expected webrtc or ws", *transport)
	}

	printTranscript(entries)
	printSummary(entries)

	if *notesText != "" && *moduleID != 0 {
		takeNotes(ctx, *backendURL, *moduleID, *notesText)
	}
}

func runWebRTC(ctx context.Context, cfg *config.Config, issuer *realtime.TokenIssuer, selected character.Character, audioPath, outputPath string, duration time.Duration) []transcriptModel.Entry {
	voice := cfg.Realtime.Voice
	if selected.VoiceID != "" {
		voice = selected.VoiceID
	}

	session := realtime.NewSession(realtime.SessionConfig{
		Model:              cfg.Realtime.Model,
		Voice:              voice,
		TranscriptionModel: cfg.Realtime.TranscriptionModel,
		AgentName:          selected.Name,
		UserName:           "You",
		TokenFunc: func(ctx context.Context) (string, error) {
			credential, err := issuer.Issue(ctx, voice)
			if err != nil {
				return "", err
			}
			return credential.Token, nil
		},
		Signaling: realtime.NewSignalingClient(cfg.Realtime.BaseURL, cfg.Realtime.Model, nil),
		Sink:      audio.NewFileSink(outputPath),
	})

	var localTracks []webrtc.TrackLocal
	var source *audio.FileSource
	if audioPath != "" {
		var err error
		source, err = audio.NewFileSource(audioPath)
		if err != nil {
			log.Fatalf("prepare audio source: %v", err)
		}
		localTracks = append(localTracks, source.Track())
	}

	log.Printf("starting session against %s (%s)", selected.Name, selected.Title)
	if err := session.Start(ctx, localTracks); err != nil {
		log.Fatalf("start session: %v", err)
	}
	defer session.Stop()

	if source != nil {
		go func() {
			if err := source.Stream(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[WARN] audio stream ended: %v", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}
	session.Stop()

	return session.Transcript()
}

func runWebSocket(ctx context.Context, cfg *config.Config, issuer *realtime.TokenIssuer, selected character.Character, duration time.Duration) []transcriptModel.Entry {
	voice := cfg.Realtime.Voice
	if selected.VoiceID != "" {
		voice = selected.VoiceID
	}

	credential, err := issuer.Issue(ctx, voice)
	if err != nil {
		log.Fatalf("issue credential: %v", err)
	}

	channel, err := realtime.DialControlChannel(ctx, cfg.Realtime.BaseURL, cfg.Realtime.Model, credential.Token)
	if err != nil {
		log.Fatalf("dial control channel: %v", err)
	}
	defer channel.Close()

	reconciler := transcriptService.NewReconciler(selected.Name)
	appendFinal := func(participant string) func(text string) {
		return func(text string) {
			reconciler.Apply(transcriptModel.SegmentBatch{
				Participant: participant,
				Segments:    []transcriptModel.Segment{{Text: text, Final: true}},
			})
		}
	}

	control := realtime.NewControlHandler(channel, cfg.Realtime.TranscriptionModel,
		appendFinal("You"), appendFinal(selected.Name))
	if err := control.Attach(); err != nil {
		log.Fatalf("attach control handler: %v", err)
	}
	defer control.Detach()

	log.Printf("control channel open against %s, listening for %s", selected.Name, duration)
	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	return reconciler.Entries()
}

func printTranscript(entries []transcriptModel.Entry) {
	if len(entries) == 0 {
		fmt.Println("\n-- no transcript captured --")
		return
	}
	fmt.Println("\n-- transcript --")
	for _, entry := range entries {
		fmt.Printf("[%s] %s: %s\n", entry.Timestamp, entry.ParticipantName, entry.Text)
	}
}

func printSummary(entries []transcriptModel.Entry) {
	summary := assessment.Summarize(entries)
	fmt.Println("\n-- session summary --")
	fmt.Printf("entries: %d, user words: %d, agent words: %d\n",
		summary.TotalEntries, summary.UserWords, summary.AgentWords)
	fmt.Printf("talk ratio: %.2f, questions: %d, fillers: %d, longest agent monologue: %d words\n",
		summary.UserTalkRatio, summary.QuestionsAsked, summary.FillerWords, summary.LongestAgentMonologue)
}

// takeNotes exercises the agent note tool, either against a running backend
// or an in-process draft store.
func takeNotes(ctx context.Context, backendURL string, moduleID int64, text string) {
	var appender agent.DraftAppender
	if backendURL != "" {
		appender = notes.NewClient(backendURL, nil)
	} else {
		appender = notes.NewService(module.NewMemoryStore(module.Seed()))
	}

	stepLog := agent.NewStepLog()
	unsubscribe := stepLog.Subscribe(func(step agent.Step) {
		log.Printf("[step] %s %s: %s", step.ID, step.Status, step.Message)
	})
	defer unsubscribe()

	tool := agent.NewNotesTool(appender, stepLog)
	if err := tool.TakeNotes(ctx, moduleID, text); err != nil {
		log.Printf("[WARN] take notes failed: %v", err)
	}
}
