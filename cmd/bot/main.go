package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/david-campos/discord-bot-sub000/internal/bot"
	"github.com/david-campos/discord-bot-sub000/internal/commands"
	"github.com/david-campos/discord-bot-sub000/internal/config"
	"github.com/david-campos/discord-bot-sub000/internal/games/countries"
	"github.com/david-campos/discord-bot-sub000/internal/gateway"
	"github.com/david-campos/discord-bot-sub000/internal/guessing"
	"github.com/david-campos/discord-bot-sub000/internal/killer"
	"github.com/david-campos/discord-bot-sub000/internal/msgcat"
	"github.com/david-campos/discord-bot-sub000/internal/obslog"
	"github.com/david-campos/discord-bot-sub000/internal/scores"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := obslog.InitFromEnv(); err != nil {
		return err
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessageOverrideDir)
	if err != nil {
		return fmt.Errorf("load message catalog: %w", err)
	}

	client := gateway.NewClient(cfg.GatewayBaseURL, gateway.WithRetry(3))
	bc := &bot.Context{
		Prefix:  cfg.BotPrefix,
		Sender:  gateway.NewSender(client),
		Locks:   bot.NewReceptionLock(),
		Catalog: catalog,
	}

	// Optional persistence: the bot degrades to in-memory play without it.
	var repo *scores.Repository
	if cfg.DatabaseURL != "" {
		repo, err = scores.NewRepository(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer repo.Close()
	} else {
		logger.Warn("no DATABASE_URL, scores are not persisted")
	}
	var cache *scores.Cache
	if cfg.RedisURL != "" {
		cache, err = scores.NewCache(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()
	} else {
		logger.Warn("no REDIS_URL, best times are not tracked")
	}
	tracker := scores.NewTracker(repo, cache, bc)

	guessOpts := guessing.Options{
		HintCooldown:      cfg.GuessHintCooldown,
		SpeedRunCount:     cfg.SpeedRunDefault,
		ExpertBaseTime:    cfg.ExpertBaseTime,
		ExpertTimePerChar: cfg.ExpertTimePerChar,
		ExpertMaxFailures: cfg.ExpertMaxFailures,
		Score:             tracker.Solved,
	}

	dispatcher := bot.NewDispatcher(bc, logger)
	killerCmd := commands.NewKillerCommand(killer.Config{
		RoundsPerDeath: cfg.KillerRoundsPerDeath,
		TurnWindow:     cfg.KillerTurnWindow,
		Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	dispatcher.Register(commands.NewGuessCommand("flags", countries.FlagsGame{}, guessOpts, repo, cache))
	dispatcher.Register(commands.NewGuessCommand("capitals", countries.CapitalsGame{}, guessOpts, repo, cache))
	dispatcher.Register(commands.NewGuessCommand("countries", countries.CountriesGame{}, guessOpts, repo, cache))
	dispatcher.Register(killerCmd)
	dispatcher.Register(commands.NewChessCommand())
	dispatcher.Register(commands.NewHelpCommand(dispatcher))

	allowed := make(map[string]struct{}, len(cfg.AllowedRooms))
	for _, r := range cfg.AllowedRooms {
		allowed[r] = struct{}{}
	}

	ws := gateway.NewWebSocket(cfg.GatewayWSURL, 10, 2*time.Second)
	ws.OnStateChange(func(state gateway.WebSocketState) {
		logger.Info("gateway state", zap.String("state", string(state)))
	})
	ws.OnEvent(func(ev *gateway.Event) {
		if len(allowed) > 0 {
			if _, ok := allowed[ev.Room]; !ok {
				return
			}
		}
		switch ev.Type {
		case gateway.EventReaction:
			killerCmd.Acknowledge(bot.ChannelKey(bot.ChannelKind(ev.RoomKind), ev.Room), ev.SenderID)
		case gateway.EventMessage:
			msg := &bot.Message{
				ID:      ev.MessageID,
				Channel: ev.Room,
				Kind:    bot.ChannelKind(ev.RoomKind),
				Author:  bot.User{ID: ev.SenderID, Name: ev.SenderName, Bot: ev.SenderBot},
				Content: ev.Content,
			}
			go dispatcher.Handle(context.Background(), msg)
		}
	})

	ctx := context.Background()
	if err := ws.Connect(ctx); err != nil {
		logger.Warn("initial gateway connect failed, retrying in background", zap.Error(err))
	}

	logger.Info("bot up",
		zap.String("prefix", cfg.BotPrefix),
		zap.Strings("commands", dispatcher.CommandNames()),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ws.Close(closeCtx)
}
