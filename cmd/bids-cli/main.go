package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/rizanep/kamcom-bids/internal/aiscore"
	"github.com/rizanep/kamcom-bids/internal/api"
	"github.com/rizanep/kamcom-bids/internal/auth"
	"github.com/rizanep/kamcom-bids/internal/config"
	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/logger"
	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/payment"
	"github.com/rizanep/kamcom-bids/internal/store"
	"github.com/rizanep/kamcom-bids/internal/views"
	"github.com/rizanep/kamcom-bids/internal/ws"
)

const usage = `bids-cli — работа со ставками kam.com

Команды:
  login -token <jwt>                 сохранить токен
  logout                             сбросить состояние и удалить токен
  list [-status S] [-search Q] [-sort K] [-desc]
  create -job ID -type fixed|hourly [-amount N] [-rate N] [-hours N] -days N -text T
  withdraw -id ID
  dashboard
  accept -id ID [-mode widget|card]
  scores -job ID -desc TEXT [-skills a,b,c]
  watch                              слушать уведомления
  export [-format csv] [-out FILE]
  import -file FILE
`

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	tokens := auth.NewTokenStore(cfg.TokenPath)
	client := api.NewClient(cfg.APIBaseURL, tokens, api.Options{
		Timeout:         cfg.HTTPTimeout,
		MaxUploadMB:     cfg.MaxUploadSizeMB,
		BulkLimit:       cfg.BulkLimit,
		BulkLimitPeriod: cfg.BulkLimitPeriod,
	})
	bidStore := store.NewBidStore(client)

	if err := run(ctx, cfg, tokens, client, bidStore, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("bids-cli: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, tokens *auth.TokenStore, client *api.Client, bidStore *store.BidStore, cmd string, args []string) error {
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		token := fs.String("token", "", "bearer-токен")
		_ = fs.Parse(args)
		return tokens.Save(*token)

	case "logout":
		bidStore.Clear()
		return tokens.Clear()

	case "list":
		return cmdList(ctx, client, args)

	case "create":
		return cmdCreate(ctx, bidStore, args)

	case "withdraw":
		fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
		id := fs.String("id", "", "идентификатор ставки")
		_ = fs.Parse(args)
		return bidStore.Withdraw(ctx, models.ID(*id))

	case "dashboard":
		if err := bidStore.LoadSummary(ctx); err != nil {
			return err
		}
		summary, _ := bidStore.Summary()
		fmt.Printf("Всего ставок: %d, ожидают: %d, приняты: %d\n", summary.TotalBids, summary.PendingBids, summary.AcceptedBids)
		fmt.Printf("Конверсия: %.1f%%, потенциальный заработок: %.2f\n", summary.AcceptanceRate, summary.TotalPotentialEarnings)
		return nil

	case "accept":
		return cmdAccept(ctx, cfg, client, bidStore, args)

	case "scores":
		return cmdScores(ctx, cfg, client, args)

	case "watch":
		return cmdWatch(ctx, cfg, tokens)

	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		format := fs.String("format", "csv", "формат выгрузки")
		out := fs.String("out", "bids.csv", "файл выгрузки")
		_ = fs.Parse(args)
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		return client.ExportBids(ctx, *format, f)

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		file := fs.String("file", "", "файл с черновиками ставок")
		_ = fs.Parse(args)
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		result, err := client.ImportBids(ctx, *file, f)
		if err != nil {
			return err
		}
		fmt.Printf("Импортировано: %d, с ошибками: %d\n", result.Processed, result.Failed)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("неизвестная команда %q", cmd)
	}
}

func cmdList(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "all", "фильтр статуса")
	search := fs.String("search", "", "поиск по названию/контрагенту")
	sortKey := fs.String("sort", "created_at", "ключ сортировки")
	desc := fs.Bool("desc", true, "сортировка по убыванию")
	_ = fs.Parse(args)

	view := views.NewController(views.RoleFreelancer)
	view.SetSearch(*search)
	view.SetStatusFilter(*status)
	view.SetSort(*sortKey, *desc)

	gen := view.NextGeneration()
	page, err := client.ListMyBids(ctx, dto.ListBidsParams{
		Status:   *status,
		Search:   *search,
		Ordering: view.OrderingParam(),
	})
	if err != nil {
		return err
	}
	view.SetPage(gen, page.Results, page.NextCursor)

	for _, bid := range view.Visible() {
		fmt.Printf("%-12s %-30s %-10s %10.2f  %s\n",
			bid.ID, truncate(bid.JobTitle, 30), bid.Status, bid.DisplayTotal(), strings.Join(view.AllowedActions(&bid), ","))
	}
	if cursor := view.NextCursor(); cursor != "" {
		fmt.Printf("... есть ещё страницы (cursor=%s)\n", cursor)
	}
	return nil
}

func cmdCreate(ctx context.Context, bidStore *store.BidStore, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	job := fs.String("job", "", "идентификатор заказа")
	bidType := fs.String("type", "fixed", "тип ставки: fixed|hourly")
	amount := fs.Float64("amount", 0, "сумма фиксированной ставки")
	rate := fs.Float64("rate", 0, "почасовая ставка")
	hours := fs.Float64("hours", 0, "оценка часов")
	days := fs.Int("days", 0, "срок поставки в днях")
	text := fs.String("text", "", "текст предложения")
	_ = fs.Parse(args)

	req := dto.CreateBidRequest{
		JobID:        models.ID(*job),
		BidType:      *bidType,
		DeliveryDays: *days,
		ProposalText: *text,
	}
	if *amount > 0 {
		req.TotalAmount = amount
	}
	if *rate > 0 {
		req.HourlyRate = rate
	}
	if *hours > 0 {
		req.EstimatedHours = hours
	}

	bid, err := bidStore.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Ставка %s создана, статус %s\n", bid.ID, bid.Status)
	return nil
}

func cmdAccept(ctx context.Context, cfg *config.Config, client *api.Client, bidStore *store.BidStore, args []string) error {
	fs := flag.NewFlagSet("accept", flag.ExitOnError)
	id := fs.String("id", "", "идентификатор ставки")
	mode := fs.String("mode", "widget", "способ оплаты: widget|card")
	_ = fs.Parse(args)

	bid, err := client.GetBid(ctx, models.ID(*id))
	if err != nil {
		return err
	}

	workflow := payment.NewWorkflow(client, payment.Options{
		CallbackAddr: cfg.CallbackAddr,
		WaitTimeout:  cfg.CallbackTimeout,
		OpenURL:      openBrowser,
		Refresh:      bidStore.LoadSummary,
	})

	var pay *models.Payment
	switch *mode {
	case "card":
		card, err := readCardDetails()
		if err != nil {
			return err
		}
		pay, err = workflow.AcceptWithCard(ctx, bid, card)
		if err != nil {
			return err
		}
	default:
		pay, err = workflow.AcceptWithWidget(ctx, bid)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Ставка %s принята, квитанция %s\n", bid.ID, pay.ReceiptNumber)
	return nil
}

func cmdScores(ctx context.Context, cfg *config.Config, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("scores", flag.ExitOnError)
	job := fs.String("job", "", "идентификатор заказа")
	desc := fs.String("desc", "", "описание заказа")
	skills := fs.String("skills", "", "требуемые навыки через запятую")
	_ = fs.Parse(args)

	jobID := models.ID(*job)
	page, err := client.ListJobBids(ctx, jobID, dto.ListBidsParams{})
	if err != nil {
		return err
	}

	scoreClient := aiscore.NewClient(cfg.AIBaseURL, cfg.HTTPTimeout)
	overlay := aiscore.Load(ctx, scoreClient, aiscore.JobContext{
		JobID:          jobID,
		Description:    *desc,
		RequiredSkills: splitSkills(*skills),
	})

	for i := range page.Results {
		bid := &page.Results[i]
		if score := overlay.ScoreFor(bid); score != nil {
			fmt.Printf("%-12s %-20s  балл %.1f (навыки %.0f%%)\n", bid.ID, truncate(bid.FreelancerName, 20), score.CombinedScore, score.SkillMatchPercent)
		} else {
			fmt.Printf("%-12s %-20s  оценка недоступна\n", bid.ID, truncate(bid.FreelancerName, 20))
		}
	}
	return nil
}

func cmdWatch(ctx context.Context, cfg *config.Config, tokens *auth.TokenStore) error {
	wsURL := strings.Replace(cfg.APIBaseURL, "http", "ws", 1) + "/ws/notifications"
	stream := ws.NewStream(wsURL, tokens, cfg.WSReconnectLimit)

	notifications, err := stream.Watch(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Слушаем уведомления, Ctrl+C для выхода...")
	for n := range notifications {
		fmt.Printf("[%s] %s: %s\n", n.CreatedAt.Format("15:04:05"), n.Type, n.Message)
	}
	return nil
}

// readCardDetails читает реквизиты карты из окружения.
// Из аргументов командной строки их не принимаем: попадут в историю шелла.
func readCardDetails() (dto.CardDetails, error) {
	var card dto.CardDetails
	card.Number = os.Getenv("KAM_CARD_NUMBER")
	card.Holder = os.Getenv("KAM_CARD_HOLDER")
	card.CVC = os.Getenv("KAM_CARD_CVC")
	fmt.Sscanf(os.Getenv("KAM_CARD_EXP"), "%d/%d", &card.ExpMonth, &card.ExpYear)
	return card, card.Validate()
}

// openBrowser открывает URL виджета в браузере пользователя.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
