//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"vaxetl/internal/config"
	"vaxetl/pkg/contracts/domain"
)

const postgresImage = "postgres:16-alpine"

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithUsername("vaxetl"),
		postgres.WithPassword("vaxetl"),
		postgres.WithDatabase("vaccination"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: config.DriverPostgres, DSN: dsn})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ApplySchema(ctx, ""))

	_, err = s.Append(ctx, domain.CountryTable, [][]string{
		{"USA", "United States", "AMR"},
		{"FRA", "France", ""},
	})
	require.NoError(t, err)

	keys, err := s.FetchKeys(ctx, "country", "iso3")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "USA", keys[0].Key.String)

	n, err := s.Append(ctx, domain.VaccineIntroductionTable, [][]string{
		{"1", "", "2005", "HepB", "True"},
		{"", "", "", "", "False"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var introduced int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vaccine_introduction WHERE introduced AND vaccine_id IS NULL`).Scan(&introduced))
	assert.Equal(t, 1, introduced)

	// A second schema run starts from empty tables.
	require.NoError(t, s.ApplySchema(ctx, ""))
	count, err := s.Count(ctx, "country")
	require.NoError(t, err)
	assert.Zero(t, count)
}
