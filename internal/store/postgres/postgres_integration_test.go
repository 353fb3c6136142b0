package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dineguide/dineguide/internal/store"
	"github.com/dineguide/dineguide/internal/store/storetest"
)

// postgresDSN returns DINEGUIDE_POSTGRES_DSN, or starts a container when
// DINEGUIDE_TESTCONTAINERS=1.
func postgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("DINEGUIDE_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	if os.Getenv("DINEGUIDE_TESTCONTAINERS") != "1" {
		t.Skip("DINEGUIDE_POSTGRES_DSN not set and DINEGUIDE_TESTCONTAINERS!=1; skipping postgres store integration test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "dineguide",
			"POSTGRES_PASSWORD": "dineguide",
			"POSTGRES_DB":       "dineguide",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://dineguide:dineguide@%s:%s/dineguide?sslmode=disable", host, port.Port())
}

func TestPostgresStore_Compliance(t *testing.T) {
	dsn := postgresDSN(t)
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Bootstrap(context.Background(), dsn)
		require.NoError(t, err)
		// suites share one database; start every subtest from empty tables
		for _, table := range []string{"menu_items", "menu_sections", "reviews", "restaurants", "collections"} {
			_, err := s.DBHandle().Exec("DELETE FROM " + table)
			require.NoError(t, err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
