package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/park285/Jielong-KakaoTalk-bot/internal/adapter/jielongpresenter"
	appcfg "github.com/park285/Jielong-KakaoTalk-bot/internal/config"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/game"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/idiom"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/kvcache"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/obslog"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/opponent"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/oracle"
	"github.com/park285/Jielong-KakaoTalk-bot/internal/score"
)

const commandWord = "접룡"

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws state", zap.Stringer("state", state))
	})

	egress := irisfast.NewEgress("auto", false, client, ws, logger)

	cat, err := msgcat.New(os.Getenv("MSG_TEMPLATE_DIR"))
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	catalog, err := idiom.DefaultCatalog()
	if err != nil {
		log.Fatalf("idiom catalog error: %v", err)
	}

	var asker *oracle.Client
	if cfg.OpenAIAPIKey != "" {
		asker = oracle.NewClient(oracle.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: time.Duration(cfg.OracleTimeoutMS) * time.Millisecond,
		}, logger)
	}

	var judge idiom.Judge
	if asker != nil {
		judge = asker
	}
	validator := idiom.NewValidator(catalog, judge, idiom.ValidatorMode(cfg.ValidatorMode), logger)

	catalogStrategy := opponent.NewCatalogStrategy(catalog, cfg.CandidateLimit, logger)
	var strategy opponent.Strategy = catalogStrategy
	if cfg.OpponentMode == "llm" && asker != nil {
		strategy = opponent.NewLLMStrategy(asker, catalogStrategy, logger)
	}

	var cache *kvcache.Cache
	if cfg.RedisURL != "" {
		c, err := kvcache.NewFromURL(context.Background(), cfg.RedisURL, time.Duration(cfg.SnapshotTTLSec)*time.Second)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		cache = c
		defer cache.Close()
	}

	repo := score.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		if err := db.PingContext(context.Background()); err != nil {
			log.Fatalf("db ping error: %v", err)
		}
		defer db.Close()
		repo = score.NewRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, scores will not survive restarts")
	}

	ledger := score.NewLedger(repo, logger)
	if err := ledger.Load(context.Background()); err != nil {
		log.Fatalf("score load error: %v", err)
	}

	svc := game.NewService(game.NewRegistry(), validator, strategy, ledger, cache, cfg.FallbackIdiom, logger)

	formatter := jielongpresenter.NewFormatter(cat, prefixProvider{prefix: cfg.BotPrefix})
	presenter := jielongpresenter.NewPresenter(egress)
	bot := &bot{cfg: cfg, svc: svc, formatter: formatter, presenter: presenter, logger: logger}

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		if len(cfg.AllowedRooms) > 0 && !roomAllowed(cfg.AllowedRooms, msg.Room) {
			return
		}
		// WS 루프를 막지 않도록 메시지별 고루틴 처리
		go bot.handle(msg)
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()
	logger.Info("jielong bot up",
		zap.String("prefix", cfg.BotPrefix),
		zap.String("opponent", cfg.OpponentMode),
		zap.String("validator", cfg.ValidatorMode),
		zap.Int("catalog_size", catalog.Size()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = ws.Close(context.Background())
}

type bot struct {
	cfg       *appcfg.AppConfig
	svc       *game.Service
	formatter *jielongpresenter.Formatter
	presenter *jielongpresenter.Presenter
	logger    *zap.Logger
}

func (b *bot) handle(msg *irisfast.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	text := strings.TrimSpace(msg.Msg)
	if strings.HasPrefix(text, b.cfg.BotPrefix) {
		b.handleCommand(ctx, msg, strings.TrimSpace(strings.TrimPrefix(text, b.cfg.BotPrefix)))
		return
	}
	b.handleFreeText(ctx, msg, text)
}

func (b *bot) handleCommand(ctx context.Context, msg *irisfast.Message, raw string) {
	parts := strings.Fields(raw)
	if len(parts) == 0 || parts[0] != commandWord {
		return
	}
	args := parts[1:]
	if len(args) == 0 {
		_ = b.presenter.Text(ctx, msg.Room, b.formatter.Help())
		return
	}

	sub := args[0]
	switch sub {
	case "시작":
		seed := ""
		if len(args) >= 2 {
			seed = args[1]
		}
		res, err := b.svc.Start(ctx, msg.Room, userID(msg), senderName(msg), seed)
		if err != nil {
			_ = b.presenter.Text(ctx, msg.Room, b.formatter.ErrorText(err))
			return
		}
		_ = b.presenter.Text(ctx, msg.Room, b.formatter.Start(jielongpresenter.ToStartView(res)))
	case "중지":
		record, err := b.svc.Stop(ctx, msg.Room)
		if err != nil {
			_ = b.presenter.Text(ctx, msg.Room, b.formatter.ErrorText(err))
			return
		}
		_ = b.presenter.Text(ctx, msg.Room, b.formatter.Stopped(jielongpresenter.ToGameSummary(record)))
	case "점수":
		rows := jielongpresenter.ToScoreRows(b.svc.RecentScores(msg.Room))
		_ = b.presenter.Text(ctx, msg.Room, b.formatter.Scores(rows))
	case "기록":
		records, err := b.svc.RecentGames(ctx, msg.Room)
		if err != nil {
			b.logger.Warn("history query failed", zap.Error(err), zap.String("room", msg.Room))
			_ = b.presenter.Text(ctx, msg.Room, b.formatter.ErrorText(err))
			return
		}
		body := b.formatter.History(jielongpresenter.ToGameSummaries(records))
		_ = b.presenter.LongText(ctx, msg.Room, "📜 최근 접룡 기록", body)
	default:
		_ = b.presenter.Text(ctx, msg.Room, b.formatter.Help())
	}
}

// handleFreeText routes plain chat into the running game. The cheap filter
// keeps ordinary conversation from hitting the validator (and the judge
// behind it).
func (b *bot) handleFreeText(ctx context.Context, msg *irisfast.Message, text string) {
	if !b.svc.Active(msg.Room) {
		return
	}
	if idiom.FastReject(text) {
		return
	}
	res, err := b.svc.Submit(ctx, msg.Room, userID(msg), senderName(msg), text)
	if err != nil {
		_ = b.presenter.Text(ctx, msg.Room, b.formatter.ErrorText(err))
		return
	}
	_ = b.presenter.Text(ctx, msg.Room, b.formatter.Move(jielongpresenter.ToMoveView(res), senderName(msg)))
}

func userID(msg *irisfast.Message) string {
	if msg.JSON != nil && msg.JSON.UserID != "" {
		return msg.JSON.UserID
	}
	if msg.Sender != nil {
		return strings.TrimSpace(*msg.Sender)
	}
	return ""
}

func senderName(msg *irisfast.Message) string {
	if msg.Sender != nil && strings.TrimSpace(*msg.Sender) != "" {
		return strings.TrimSpace(*msg.Sender)
	}
	if msg.JSON != nil && strings.TrimSpace(msg.JSON.UserID) != "" {
		return strings.TrimSpace(msg.JSON.UserID)
	}
	return "player"
}

func roomAllowed(allowed []string, room string) bool {
	for _, r := range allowed {
		if r == room {
			return true
		}
	}
	return false
}

type prefixProvider struct{ prefix string }

func (p prefixProvider) Prefix() string { return p.prefix }
