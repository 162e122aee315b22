package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/config"
	"github.com/convoyrelief/convoyd/pkg/db"
	"github.com/convoyrelief/convoyd/pkg/password"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/endpoints"
	gormstore "github.com/convoyrelief/convoyd/pkg/server/store/gorm"
	"github.com/convoyrelief/convoyd/pkg/token"
)

const (
	jwtSecret       = "integration-test-signing-secret"
	accountPassword = "password"
	serverPort      = "18080"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	Secret        []byte
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd

	seeder *gormstore.Seeder
	roles  []gormstore.SeedRole
	users  []gormstore.SeedUser
}

// NewTestContext starts PostgreSQL in a container, migrates and seeds it,
// and starts a server against it.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set CONVOYD_BINARY to the path of the convoyctl binary
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	binaryPath := os.Getenv("CONVOYD_BINARY")
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("CONVOYD_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("convoyd_test"),
		tcpostgres.WithUsername("convoyd"),
		tcpostgres.WithPassword("convoyd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          conn,
		Container:   pgContainer,
		ServerURL:   "http://127.0.0.1:" + serverPort,
		DatabaseURL: connStr,
		Secret:      []byte(jwtSecret),
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		seeder:      gormstore.NewSeeder(conn),
	}
	if err := tc.prepareSeed(); err != nil {
		tc.Close(ctx)
		return nil, err
	}
	if err := tc.Reset(ctx); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	if binaryPath != "" {
		err = tc.startBinary(binaryPath)
	} else {
		err = tc.startInline()
	}
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

func (tc *TestContext) prepareSeed() error {
	hash, err := password.Hash(accountPassword)
	if err != nil {
		return err
	}
	tc.roles = gormstore.BootstrapRoles("SUPER_ADMIN", "GUEST")
	tc.users = []gormstore.SeedUser{
		{Username: "superadmin", Email: "superadmin@example.com", PasswordHash: hash, Role: "SUPER_ADMIN"},
		{Username: "admin", Email: "admin@example.com", PasswordHash: hash, Role: "ADMIN"},
		{Username: "guest", Email: "guest@example.com", PasswordHash: hash, Role: "GUEST"},
	}
	return nil
}

// Reset restores the bootstrap roles, grants and accounts that scenarios
// are allowed to disturb.
func (tc *TestContext) Reset(ctx context.Context) error {
	if err := tc.seeder.Seed(ctx, tc.roles, tc.users); err != nil {
		return err
	}
	emails := make([]string, 0, len(tc.users))
	for _, u := range tc.users {
		emails = append(emails, u.Email)
	}
	return tc.DB.WithContext(ctx).Exec(`UPDATE users SET is_active = true WHERE email IN ?`, emails).Error
}

func (tc *TestContext) startInline() error {
	cfg := config.Get()
	cfg.SigninRateLimit = 10000

	issuer, err := token.NewIssuer(tc.Secret, cfg.TokenLifetime())
	if err != nil {
		return err
	}
	verifier, err := token.NewVerifier(tc.Secret)
	if err != nil {
		return err
	}

	s := server.NewServer(server.Options{
		Config:     cfg,
		Subjects:   gormstore.NewSubjectStore(tc.DB),
		Roles:      gormstore.NewRolesStore(tc.DB),
		Health:     gormstore.NewHealthStore(tc.DB),
		Convoys:    gormstore.NewConvoyStore(tc.DB),
		Committees: gormstore.NewCommitteeStore(tc.DB),
		Volunteers: gormstore.NewVolunteerStore(tc.DB),
		Villages:   gormstore.NewVillageStore(tc.DB),
		Issuer:     issuer,
		Verifier:   verifier,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Host:       "127.0.0.1",
		Port:       serverPort,
	})
	endpoints.RegisterAll(s)

	ctx, cancel := context.WithCancel(context.Background())
	tc.Cancel = cancel
	go func() {
		_ = s.Start(ctx)
	}()
	return nil
}

func (tc *TestContext) startBinary(binaryPath string) error {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", serverPort)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		config.EnvJWTSecret+"="+jwtSecret,
		"CONVOYD_SIGNIN_RATE_LIMIT=10000",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start binary: %w", err)
	}
	tc.Cancel = cancel
	tc.ServerProcess = cmd
	return nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

func runMigrations(dbURL, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
