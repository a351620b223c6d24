package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDriver(test *testing.T) {
	test.Parallel()
	dir := test.TempDir()
	testCases := []struct {
		name       string
		dsn        string
		wantDriver string
		wantPath   string
	}{
		{name: "postgres", dsn: "postgres://hotel@localhost/hotel", wantDriver: DriverPostgres},
		{name: "postgresql", dsn: "postgresql://hotel@localhost/hotel", wantDriver: DriverPostgres},
		{name: "sqlite absolute url", dsn: "sqlite://" + dir + "/data/hotel.db", wantDriver: DriverSQLite, wantPath: dir + "/data/hotel.db"},
		{name: "bare absolute path", dsn: dir + "/bare.db", wantDriver: DriverSQLite, wantPath: dir + "/bare.db"},
		{name: "memory", dsn: ":memory:", wantDriver: DriverSQLite, wantPath: ":memory:"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			driver, path, err := ResolveDriver(testCase.dsn)
			require.NoError(test, err)
			require.Equal(test, testCase.wantDriver, driver)
			require.Equal(test, testCase.wantPath, path)
		})
	}
}

func TestResolveDriverCreatesSQLiteDirectory(test *testing.T) {
	test.Parallel()
	dir := test.TempDir()
	_, path, err := ResolveDriver("sqlite://" + filepath.Join(dir, "nested", "hotel.db"))
	require.NoError(test, err)
	require.DirExists(test, filepath.Dir(path))
}

func TestOpenAndPrepareSQLite(test *testing.T) {
	test.Parallel()
	db, cleanup, driver, err := Open(context.Background(), filepath.Join(test.TempDir(), "hotel.db"))
	require.NoError(test, err)
	test.Cleanup(func() { _ = cleanup() })
	require.Equal(test, DriverSQLite, driver)

	require.NoError(test, PrepareSchema(db))
	for _, table := range []string{"rooms", "guests", "bookings", "payments", "guest_history"} {
		require.True(test, db.Migrator().HasTable(table), table)
	}
	require.True(test, db.Migrator().HasIndex("bookings", "uniq_bookings_room_check_in"))
}

func TestOpenPoolRejectsSQLite(test *testing.T) {
	test.Parallel()
	_, err := OpenPool(context.Background(), ":memory:")
	require.Error(test, err)
}
