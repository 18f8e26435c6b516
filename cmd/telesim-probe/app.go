package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"telesim/internal/config"
	"telesim/internal/engine"
	"telesim/pkg/botapi"
)

const (
	envConfigFile         = "TELESIM_CONFIG_FILE"
	defaultConfigFilePath = "config/telesim.yaml"
)

// run wires an engine, drives a short scripted exchange against it, and
// prints the resulting update stream. It doubles as a smoke check that the
// dispatch core, markup parser, and update queue cooperate end to end.
func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	options := []engine.Option{engine.WithLogger(logger)}
	if start, ok, err := cfg.Start(); err != nil {
		return err
	} else if ok {
		options = append(options, engine.WithStartTime(start))
	}
	if cfg.SendRate > 0 {
		options = append(options, engine.WithSendRate(rate.Limit(cfg.SendRate), cfg.SendBurst))
	}

	bot := botapi.User{
		ID:        cfg.Bot.ID,
		IsBot:     true,
		FirstName: cfg.Bot.FirstName,
		Username:  cfg.Bot.Username,
	}
	eng := engine.New(bot, options...)

	ctx := context.Background()
	if err := script(ctx, logger, eng); err != nil {
		return fmt.Errorf("run script: %w", err)
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	path := strings.TrimSpace(os.Getenv(envConfigFile))
	if path == "" {
		path = defaultConfigFilePath
	}
	if _, err := os.Stat(path); err != nil {
		// No profile on disk; run with defaults.
		return &config.Config{
			Bot:      config.BotConfig{ID: 1, FirstName: "Probe"},
			LogLevel: "info",
		}, nil
	}

	return config.Load(path)
}

// script plays one user exchange: an inbound message, a formatted reply, a
// poll with a vote, and a long poll draining the produced updates.
func script(ctx context.Context, logger *slog.Logger, eng *engine.Engine) error {
	alice := botapi.User{ID: 1001, FirstName: "Alice", Username: "alice"}
	group := botapi.Chat{ID: -100200300, Type: botapi.ChatTypeSupergroup, Title: "Probe Group"}

	inbound, err := eng.SimulateMessage(group, alice, "hello bot")
	if err != nil {
		return err
	}
	logger.Info("inbound message stored", "chat_id", inbound.Chat.ID, "message_id", inbound.MessageID)

	call := eng.CallFunc()

	reply := call(ctx, "sendMessage", mustJSON(map[string]any{
		"chat_id":    group.ID,
		"text":       "*hello* back, _alice_",
		"parse_mode": "MarkdownV2",
	}))
	if !reply.OK {
		return fmt.Errorf("sendMessage failed: %s", reply.Description)
	}
	logger.Info("reply sent", "result", string(reply.Result))

	pollResp := call(ctx, "sendPoll", mustJSON(map[string]any{
		"chat_id":  group.ID,
		"question": "Shall we proceed?",
		"options":  []string{"yes", "no"},
	}))
	if !pollResp.OK {
		return fmt.Errorf("sendPoll failed: %s", pollResp.Description)
	}
	var pollMessage botapi.Message
	if err := json.Unmarshal(pollResp.Result, &pollMessage); err != nil {
		return fmt.Errorf("decode poll message: %w", err)
	}
	if pollMessage.Poll == nil {
		return fmt.Errorf("sendPoll returned a message without a poll")
	}
	if _, err := eng.SimulatePollAnswer(pollMessage.Poll.ID, alice, []int{0}); err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	updates := call(fetchCtx, "getUpdates", mustJSON(map[string]any{"limit": 10}))
	if !updates.OK {
		return fmt.Errorf("getUpdates failed: %s", updates.Description)
	}
	logger.Info("updates drained", "payload", string(updates.Result))

	return nil
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return raw
}
