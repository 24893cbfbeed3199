package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-grid/api"
	"github.com/hoshinonyaruko/snake-grid/config"
	"github.com/hoshinonyaruko/snake-grid/game"
	"github.com/hoshinonyaruko/snake-grid/memimg"
	"github.com/hoshinonyaruko/snake-grid/snake"
	"github.com/hoshinonyaruko/snake-grid/sqlite"
	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/hoshinonyaruko/snake-grid/terminal"
	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
)

var log = logging.MustGetLogger("main")

func main() {
	configPath := flag.String("config", "./config.json", "path to config.json")
	tui := flag.Bool("tui", false, "play in the terminal instead of serving HTTP only")
	flag.Parse()

	// Initialize the configuration
	cfg := config.LoadConfig(*configPath)

	// 终端模式下日志写入文件，避免破坏画面
	var logOut io.Writer = os.Stdout
	if *tui {
		f, err := os.OpenFile("snake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	setupLogger(logOut, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Watch(ctx, *configPath, func(c *config.AppConfig) {
		setLevel(c.LogLevel)
	}); err != nil {
		log.Warningf("config hot reload disabled: %v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	start := structs.Position{X: cfg.StartX, Y: cfg.StartY}
	startDir := cfg.Direction()
	world := snake.NewWorld(snake.Options{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Start:     &start,
		Direction: &startDir,
		Rand:      rand.New(rand.NewSource(seed)),
	})

	input := game.NewLatch()
	hub := game.NewHub()
	opts := game.Options{Tick: cfg.TickInterval(), Food: cfg.FoodInterval()}

	server := &api.Server{
		Input:     input,
		Hub:       hub,
		Frames:    memimg.NewFrames(),
		BlockSize: func() int { return config.GetConfigValue("blocksize").(int) },
	}
	if cfg.Journal != "" {
		journal, err := sqlite.Open(cfg.Journal)
		if err != nil {
			log.Fatalf("open journal %s: %v", cfg.Journal, err)
		}
		defer journal.Close()
		opts.Recorder = journal
		server.Journal = journal
	}

	runner := game.NewRunner(world, input, hub, opts)

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(server),
	}
	go func() {
		log.Infof("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server: %v", err)
			stop()
		}
	}()

	if *tui {
		front, err := terminal.New(input, hub)
		if err != nil {
			log.Fatalf("init terminal: %v", err)
		}
		go front.Run(ctx, stop)
	}

	runner.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
}

func setupLogger(w io.Writer, level string) {
	format := logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{module} %{shortfunc} ▶ %{level:.4s} %{id:03x}%{color:reset} %{message}`,
	)
	backend := logging.NewLogBackend(w, "", 0)
	formatter := logging.NewBackendFormatter(backend, format)
	logging.SetBackend(formatter)
	setLevel(level)
}

func setLevel(level string) {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		log.Warningf("unknown log level %q, using INFO", level)
		lvl = logging.INFO
	}
	logging.SetLevel(lvl, "")
}
