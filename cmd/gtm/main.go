// Command gtm runs the season ticket manager: the API server plus the
// admin subcommands used from the terminal (schedule import, admin
// bootstrap, inventory management).
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	flag "github.com/spf13/pflag"

	"github.com/jdrivas/gtm/internal/allocation"
	"github.com/jdrivas/gtm/internal/config"
	"github.com/jdrivas/gtm/internal/database"
	"github.com/jdrivas/gtm/internal/handler"
	"github.com/jdrivas/gtm/internal/middleware"
	"github.com/jdrivas/gtm/internal/model"
	"github.com/jdrivas/gtm/internal/queue"
	"github.com/jdrivas/gtm/internal/repository"
	"github.com/jdrivas/gtm/internal/router"
	"github.com/jdrivas/gtm/internal/scraper"
	"github.com/jdrivas/gtm/internal/service"
)

const usage = `usage: gtm <command> [flags]

commands:
  serve            run the API server
  scrape-schedule  import the season schedule and generate tickets
  grant-admin      promote a user to admin by email
  list-games       print the imported schedule
  list-seats       print the seat block
  add-seat         add one seat and generate its tickets
  list-tickets     print tickets for one game
`

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "serve":
		runServe(args)
	case "scrape-schedule":
		runScrapeSchedule(args)
	case "grant-admin":
		runGrantAdmin(args)
	case "list-games":
		runListGames(args)
	case "list-seats":
		runListSeats(args)
	case "add-seat":
		runAddSeat(args)
	case "list-tickets":
		runListTickets(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "gtm: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

// openDB resolves config, opens the pool and runs the schema bootstrap.
func openDB(cfg config.Config) *sql.DB {
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("gtm: database open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("gtm: schema bootstrap: %v", err)
	}
	return db
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", "", "listen port (overrides config)")
	_ = fs.Parse(args)

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	db := openDB(cfg)
	defer db.Close()

	seats := repository.NewSeatRepo(db)
	tickets := repository.NewTicketRepo(db)
	games := repository.NewGameRepo(db)
	requests := repository.NewRequestRepo(db)
	users := repository.NewUserRepo(db)
	engine := allocation.NewEngine(tickets, requests, games, users, cfg.TeamID)

	keys, err := middleware.FetchJWKS(cfg.JWKSURL)
	if err != nil {
		log.Fatalf("gtm: jwks: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("gtm: redis unavailable, rate limiting and caching disabled")
	}

	publisher := service.NewAMQPPublisher(cfg.AMQPURL)
	if publisher == nil {
		log.Printf("gtm: no broker configured, allocation events disabled")
	} else {
		go queue.StartAllocationConsumer(cfg.AMQPURL)
	}

	h := &handler.Handler{
		Cfg:        cfg,
		Seats:      seats,
		Tickets:    tickets,
		Games:      games,
		Requests:   requests,
		Users:      users,
		Promotions: repository.NewPromotionRepo(db),
		Engine:     engine,
		Scraper:    scraper.NewClient(),
		Publisher:  publisher,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.Register(e, h, keys, rdb)

	addr := ":" + cfg.Port
	log.Printf("gtm: listening on %s (env=%s team=%s)", addr, cfg.Env, cfg.TeamName)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func runScrapeSchedule(args []string) {
	fs := flag.NewFlagSet("scrape-schedule", flag.ExitOnError)
	season := fs.Int("season", time.Now().Year(), "season year to import")
	_ = fs.Parse(args)

	cfg := config.Load()
	db := openDB(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sched, err := scraper.NewClient().FetchSchedule(ctx, cfg.TeamID, *season)
	if err != nil {
		log.Fatalf("gtm: schedule fetch: %v", err)
	}
	games := repository.NewGameRepo(db)
	for i := range sched.Games {
		if err := games.Upsert(ctx, &sched.Games[i]); err != nil {
			log.Fatalf("gtm: game upsert: %v", err)
		}
	}
	promos := repository.NewPromotionRepo(db)
	for i := range sched.Promotions {
		if err := promos.Upsert(ctx, &sched.Promotions[i]); err != nil {
			log.Fatalf("gtm: promotion upsert: %v", err)
		}
	}
	generated, err := repository.NewTicketRepo(db).GenerateForAllSeats(ctx, cfg.TeamID)
	if err != nil {
		log.Fatalf("gtm: ticket generation: %v", err)
	}
	fmt.Printf("imported %d games, %d promotions, generated %d tickets\n",
		len(sched.Games), len(sched.Promotions), generated)
}

func runGrantAdmin(args []string) {
	fs := flag.NewFlagSet("grant-admin", flag.ExitOnError)
	email := fs.String("email", "", "email of the user to promote")
	_ = fs.Parse(args)
	if *email == "" {
		log.Fatal("gtm: --email is required")
	}

	cfg := config.Load()
	db := openDB(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ok, err := repository.NewUserRepo(db).GrantRole(ctx, *email, model.RoleAdmin)
	if err != nil {
		log.Fatalf("gtm: grant admin: %v", err)
	}
	if !ok {
		log.Fatalf("gtm: no user with email %s (they must sign in once first)", *email)
	}
	fmt.Printf("%s is now an admin\n", *email)
}

func runListGames(args []string) {
	fs := flag.NewFlagSet("list-games", flag.ExitOnError)
	month := fs.Int("month", 0, "filter by month (1-12, 0 = all)")
	_ = fs.Parse(args)

	cfg := config.Load()
	db := openDB(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	games, err := repository.NewGameRepo(db).List(ctx, *month)
	if err != nil {
		log.Fatalf("gtm: list games: %v", err)
	}
	promoRepo := repository.NewPromotionRepo(db)
	for _, g := range games {
		home := " "
		if g.IsHome(cfg.TeamID) {
			home = "H"
		}
		promoCol := ""
		if promos, err := promoRepo.ListForGame(ctx, g.GamePk); err == nil && len(promos) > 0 {
			names := make([]string, len(promos))
			for i, p := range promos {
				names[i] = p.Name
			}
			promoCol = "  [" + strings.Join(names, ", ") + "]"
		}
		fmt.Printf("%d  %s  %s  %s vs %s  (%s)%s\n",
			g.GamePk, home, g.OfficialDate, g.HomeTeamName, g.AwayTeamName, g.StatusDetailed, promoCol)
	}
	fmt.Printf("%d games\n", len(games))
}

func runListSeats(args []string) {
	fs := flag.NewFlagSet("list-seats", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg := config.Load()
	db := openDB(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seats, err := repository.NewSeatRepo(db).List(ctx)
	if err != nil {
		log.Fatalf("gtm: list seats: %v", err)
	}
	for _, s := range seats {
		notes := ""
		if s.Notes != nil {
			notes = "  " + *s.Notes
		}
		fmt.Printf("%d  section %s row %s seat %s%s\n", s.ID, s.Section, s.Row, s.Seat, notes)
	}
	fmt.Printf("%d seats\n", len(seats))
}

func runAddSeat(args []string) {
	fs := flag.NewFlagSet("add-seat", flag.ExitOnError)
	section := fs.String("section", "", "seat section")
	row := fs.String("row", "", "seat row")
	seat := fs.String("seat", "", "seat number")
	notes := fs.String("notes", "", "optional notes")
	_ = fs.Parse(args)

	cfg := config.Load()
	db := openDB(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var n *string
	if *notes != "" {
		n = notes
	}
	created, err := repository.NewSeatRepo(db).Add(ctx, *section, *row, *seat, n)
	if err != nil {
		log.Fatalf("gtm: add seat: %v", err)
	}
	generated, err := repository.NewTicketRepo(db).GenerateForSeat(ctx, created.ID, cfg.TeamID)
	if err != nil {
		log.Fatalf("gtm: ticket generation: %v", err)
	}
	fmt.Printf("seat %d added, %d tickets generated\n", created.ID, generated)
}

func runListTickets(args []string) {
	fs := flag.NewFlagSet("list-tickets", flag.ExitOnError)
	gamePk := fs.Int64("game", 0, "game_pk to list tickets for")
	_ = fs.Parse(args)
	if *gamePk == 0 {
		log.Fatal("gtm: --game is required")
	}

	cfg := config.Load()
	db := openDB(cfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tickets, err := repository.NewTicketRepo(db).ListForGame(ctx, *gamePk)
	if err != nil {
		log.Fatalf("gtm: list tickets: %v", err)
	}
	for _, t := range tickets {
		holder := ""
		if t.AssignedTo != nil {
			holder = fmt.Sprintf("  user %d", *t.AssignedTo)
		}
		fmt.Printf("%d  %s-%s-%s  %s%s\n", t.ID, t.Section, t.Row, t.Seat, t.Status, holder)
	}
	fmt.Printf("%d tickets\n", len(tickets))
}
