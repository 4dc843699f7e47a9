package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mentorhub/go-mentorhub/admin"
	"github.com/mentorhub/go-mentorhub/auth"
	"github.com/mentorhub/go-mentorhub/auth/jwtexpiry"
	"github.com/mentorhub/go-mentorhub/bookings"
	"github.com/mentorhub/go-mentorhub/guard"
	"github.com/mentorhub/go-mentorhub/httpclient"
	"github.com/mentorhub/go-mentorhub/internal/config"
	"github.com/mentorhub/go-mentorhub/learners"
	"github.com/mentorhub/go-mentorhub/mentors"
	"github.com/mentorhub/go-mentorhub/session/filestore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app bundles the wired SDK for the command handlers.
type app struct {
	service   *auth.Service
	authGuard *guard.AuthGuard
	roleGuard *guard.RoleGuard
	mentors   *mentors.Client
	learners  *learners.Client
	bookings  *bookings.Client
	admin     *admin.Client
	log       zerolog.Logger
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	a, err := wire(cfg, log)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		displayAppName(cfg.AppName)
		usage()
		return nil
	}

	return a.dispatch(context.Background(), args)
}

// wire is the composition root: store -> session service -> intercepted
// HTTP client -> resource clients. The session service gets a plain
// client so auth calls bypass the interceptor entirely.
func wire(cfg *config.Config, log zerolog.Logger) (*app, error) {
	store, err := filestore.New(cfg.SessionFile)
	if err != nil {
		return nil, errors.Wrap(err, "session store")
	}

	service, err := auth.NewService(store, cfg.AuthURL,
		auth.WithExpiryChecker(jwtexpiry.New()),
		auth.WithLogger(log),
	)
	if err != nil {
		return nil, errors.Wrap(err, "auth service")
	}

	client := httpclient.NewClient(service, cfg.HTTPTimeout,
		httpclient.WithLogger(log),
	)
	caller := httpclient.NewCaller(client, cfg.BackendURL)

	return &app{
		service:   service,
		authGuard: guard.NewAuthGuard(service, guard.DefaultRoutes),
		roleGuard: guard.NewRoleGuard(service, guard.DefaultRoutes),
		mentors:   mentors.NewClient(caller),
		learners:  learners.NewClient(caller),
		bookings:  bookings.NewClient(caller),
		admin:     admin.NewClient(caller),
		log:       log,
	}, nil
}

func displayAppName(appName string) {
	banner := figure.NewFigure(appName, "cybermedium", true)
	banner.Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`Usage: mentorhub <command> [flags]

Commands:
  sign-in    -email <email> -password <password>
  sign-up    -name <full name> -email <email> -password <password> [-role mentor|learner]
  sign-out
  whoami
  mentors    list [-available] [-competences <s>] [-search <s>] | search -q <s>
  learners   list
  bookings   mentor <mentor-id> | learner <learner-id>
  admin      stats | mentors [-status <s>]`)
}
