package main

import (
	"os"

	"github.com/erstaunlich/wortschatz/app/api"
	"github.com/erstaunlich/wortschatz/app/bot"
	"github.com/erstaunlich/wortschatz/app/clients/wiktionary"
	"github.com/erstaunlich/wortschatz/app/db"
	"github.com/erstaunlich/wortschatz/app/dictionary"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	log "github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

type Opts struct {
	BotToken  string  `long:"bot-token" env:"BOT_TOKEN" description:"Telegram bot token (bot disabled when empty)"`
	BoltDB    string  `long:"boltdb" env:"BOLTDB" default:"./dict.data" description:"Path to BoltDB"`
	RedisURL  string  `long:"redis" env:"REDIS_URL" description:"Redis database URL"`
	JWTSecret string  `long:"jwt" env:"JWT_SECRET" required:"true" description:"JWT secret"`
	APIKey    string  `long:"api-key" env:"API_KEY" required:"true" description:"Shared key for token exchange"`
	Port      int     `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`
	WikiRPS   float64 `long:"wiki-rps" env:"WIKI_RPS" default:"4" description:"Wiktionary request rate limit"`
}

func main() {
	_ = godotenv.Load()
	var opts Opts
	_, err := flags.ParseArgs(&opts, os.Args)
	if err != nil {
		return
	}

	storage, closeStorage := getStorage(opts)
	defer closeStorage()

	dictService := dictionary.NewService(wiktionary.NewClient(opts.WikiRPS))

	// Start API
	go func() {
		api := api.NewServer(storage, dictService, opts.APIKey, opts.JWTSecret)
		if err := api.Run(opts.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to run API server")
		}
	}()

	if opts.BotToken == "" {
		log.Info().Msg("no bot token, running API only")
		select {}
	}

	// initialize Telegram bot
	b, err := bot.NewTelegramBot(opts.BotToken, storage, []bot.Handler{
		bot.StartHandler{},
		// Settings
		bot.ListSettingsHandler{},
		bot.SendQuizSizesHandler{},
		bot.SetQuizSizeHandler{},
		// Quizzes
		bot.QuizHandler{},
		bot.QuizReplyHandler{},
		// Dictionary
		bot.NewWordHandler(dictService),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	b.Start()
}

func getStorage(opts Opts) (db.Storage, func()) {
	if opts.RedisURL != "" {
		redisStorage, err := db.NewRedisStorage(opts.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis client")
		}
		return redisStorage, func() {}

	} else {
		boltDB, err := bolt.Open(opts.BoltDB, 0600, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create boltDB database")
		}
		boltStorage, err := db.NewBoltStorage(boltDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to bolt storage")
		}
		return boltStorage, func() {
			err := boltDB.Close()
			if err != nil {
				log.Error().Err(err).Msg("failed to close boltDB database")
			}
		}
	}
}
