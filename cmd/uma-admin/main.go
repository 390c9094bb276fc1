// Package main is the entry point for the Uma admin CLI. It provides
// account management commands that talk straight to the database, bypassing
// the HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/config"
	"github.com/uma-movies/uma-server/internal/domain"
	"github.com/uma-movies/uma-server/internal/pkg/crypto"
	"github.com/uma-movies/uma-server/internal/repository"
	"github.com/uma-movies/uma-server/internal/repository/postgres"
	"github.com/uma-movies/uma-server/internal/repository/sqlite"
	"github.com/uma-movies/uma-server/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Uma Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUser(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "token":
		if err := runToken(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "seed":
		if err := runSeed(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user requires a subcommand: create, list, delete")
	}

	ctx := context.Background()

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		username := fs.String("username", "", "username for the new account")
		password := fs.String("password", "", "password for the new account")
		configPath := fs.String("config", "", "path to config file")
		_ = fs.Parse(args[1:])

		if *username == "" || *password == "" {
			return fmt.Errorf("both --username and --password are required")
		}

		users, closeFn, err := userService(ctx, *configPath)
		if err != nil {
			return err
		}
		defer closeFn()

		user, err := users.Register(ctx, service.RegisterInput{
			Username: *username,
			Password: *password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created user %q (id %d)\n", user.Username(), user.ID())
		return nil

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		_ = fs.Parse(args[1:])

		users, closeFn, err := userService(ctx, *configPath)
		if err != nil {
			return err
		}
		defer closeFn()

		result, err := users.List(ctx, repository.ListOptions{})
		if err != nil {
			return err
		}
		for _, u := range result.Items {
			token := "-"
			if u.APIToken() != "" {
				token = "issued"
			}
			fmt.Printf("%d\t%s\ttoken: %s\tfavourites: %d\n",
				u.ID(), u.Username(), token, len(u.Favourites()))
		}
		fmt.Printf("%d users\n", result.Total)
		return nil

	case "delete":
		fs := flag.NewFlagSet("user delete", flag.ExitOnError)
		username := fs.String("username", "", "username of the account to delete")
		configPath := fs.String("config", "", "path to config file")
		_ = fs.Parse(args[1:])

		if *username == "" {
			return fmt.Errorf("--username is required")
		}

		users, closeFn, err := userService(ctx, *configPath)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := users.Remove(ctx, *username); err != nil {
			return err
		}
		fmt.Printf("deleted user %q\n", *username)
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

func runToken(args []string) error {
	if len(args) < 1 || args[0] != "revoke" {
		return fmt.Errorf("token requires the revoke subcommand")
	}

	fs := flag.NewFlagSet("token revoke", flag.ExitOnError)
	username := fs.String("username", "", "username whose token to revoke")
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args[1:])

	if *username == "" {
		return fmt.Errorf("--username is required")
	}

	ctx := context.Background()
	users, closeFn, err := userService(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closeFn()

	user, err := users.Show(ctx, *username)
	if err != nil {
		return err
	}
	if user.APIToken() == "" {
		fmt.Printf("user %q has no active token\n", *username)
		return nil
	}
	if err := users.Logout(ctx, user); err != nil {
		return err
	}
	fmt.Printf("revoked token for %q\n", *username)
	return nil
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	ctx := context.Background()
	backend, cfg, logger, err := openBackend(ctx, *configPath)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Database.Close() }()

	actors := service.NewActorService(backend.Repos.Actor, logger)
	genres := service.NewGenreService(
		backend.Repos.Genre, backend.Repos.Movie, backend.Repos.Actor, logger)
	movies := service.NewMovieService(
		backend.Repos.Movie, backend.Repos.Actor, backend.Repos.Genre, logger)
	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	users := service.NewUserService(
		backend.Repos.User, backend.Repos.Movie, hasher, nil, 0, logger)

	seedActors := []struct {
		name  string
		birth string
	}{
		{"Mike Myers", "1963-05-25"},
		{"Heather Graham", "1970-01-29"},
		{"Shia LaBeouf", "1986-06-11"},
		{"Megan Fox", "1986-05-16"},
		{"Mark Ryan", "1956-06-07"},
	}
	for _, a := range seedActors {
		birth, err := time.Parse("2006-01-02", a.birth)
		if err != nil {
			return err
		}
		_, err = actors.Create(ctx, service.CreateActorInput{Name: a.name, Birth: birth})
		if err := ignoreExisting(err); err != nil {
			return fmt.Errorf("seed actor %q: %w", a.name, err)
		}
	}

	for _, name := range []string{"Action", "Comedy"} {
		_, err := genres.Create(ctx, name)
		if err := ignoreExisting(err); err != nil {
			return fmt.Errorf("seed genre %q: %w", name, err)
		}
	}

	type role struct{ character, actor string }
	seedMovies := []struct {
		name  string
		genre string
		roles []role
	}{
		{
			name:  "Transformers",
			genre: "Action",
			roles: []role{
				{"Sam Witwicky", "Shia LaBeouf"},
				{"Mikaela Banes", "Megan Fox"},
				{"Bumblebee", "Mark Ryan"},
			},
		},
		{
			name:  "Austin Powers: The Spy Who Shagged Me",
			genre: "Comedy",
			roles: []role{
				{"Austin Powers", "Mike Myers"},
				{"Felicity Shagwell", "Heather Graham"},
			},
		},
	}
	for _, m := range seedMovies {
		_, err := movies.Create(ctx, m.name)
		if err := ignoreExisting(err); err != nil {
			return fmt.Errorf("seed movie %q: %w", m.name, err)
		}
		genre := m.genre
		_, err = movies.Change(ctx, service.ChangeMovieInput{Name: m.name, Genre: &genre})
		if err != nil {
			return fmt.Errorf("seed movie %q: %w", m.name, err)
		}
		for _, r := range m.roles {
			_, err := movies.AddActor(ctx, m.name, r.character, r.actor)
			if err := ignoreExisting(err); err != nil {
				return fmt.Errorf("seed movie %q role %q: %w", m.name, r.character, err)
			}
		}
	}

	memberships := []struct{ genre, movie string }{
		{"Action", "Transformers"},
		{"Action", "Austin Powers: The Spy Who Shagged Me"},
		{"Comedy", "Austin Powers: The Spy Who Shagged Me"},
	}
	for _, m := range memberships {
		_, err := genres.AddMovie(ctx, m.genre, m.movie)
		if err := ignoreExisting(err); err != nil {
			return fmt.Errorf("seed genre %q: %w", m.genre, err)
		}
	}
	_, err = genres.AddActor(ctx, "Comedy", "Mike Myers")
	if err := ignoreExisting(err); err != nil {
		return fmt.Errorf("seed genre %q: %w", "Comedy", err)
	}

	_, err = users.Register(ctx, service.RegisterInput{
		Username: "demo",
		Password: "demopassword",
	})
	if err := ignoreExisting(err); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	fmt.Println("seeded demo catalogue")
	return nil
}

// ignoreExisting filters the already-exists errors so seeding can be re-run
// against a populated database.
func ignoreExisting(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrActorExists),
		errors.Is(err, service.ErrGenreExists),
		errors.Is(err, service.ErrMovieExists),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, domain.ErrActorInMovie),
		errors.Is(err, domain.ErrMovieInGenre),
		errors.Is(err, domain.ErrActorInGenre):
		return nil
	default:
		return err
	}
}

// userService builds a UserService against the configured database. The
// returned closer releases the database handle.
func userService(ctx context.Context, configPath string) (*service.UserService, func(), error) {
	backend, cfg, logger, err := openBackend(ctx, configPath)
	if err != nil {
		return nil, nil, err
	}

	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	users := service.NewUserService(
		backend.Repos.User, backend.Repos.Movie, hasher, nil, 0, logger)

	return users, func() { _ = backend.Database.Close() }, nil
}

func openBackend(ctx context.Context, configPath string) (*repository.Backend, *config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, fmt.Errorf("load configuration: %w", err)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	var backend *repository.Backend
	switch cfg.Database.Driver {
	case "postgres":
		backend, err = postgres.NewBackend(ctx, cfg.Database, logger)
	default:
		backend, err = sqlite.NewBackend(ctx, cfg.Database, logger)
	}
	if err != nil {
		return nil, nil, zerolog.Logger{}, err
	}
	return backend, cfg, logger, nil
}

func printUsage() {
	fmt.Println(`Uma Admin CLI

Usage:
  uma-admin <command> [arguments]

Commands:
  user create   Create an account (--username, --password)
  user list     List all accounts
  user delete   Delete an account (--username)
  token revoke  Revoke an account's API token (--username)
  seed          Insert a small demo catalogue and a demo account
  version       Print version information
  help          Show this help message

All commands accept --config pointing at the server configuration file;
without it the usual config search paths and UMA_* environment variables
apply.

Examples:
  uma-admin user create --username alice --password secret
  uma-admin user list
  uma-admin token revoke --username alice
  uma-admin seed --config configs/config.yaml`)
}
