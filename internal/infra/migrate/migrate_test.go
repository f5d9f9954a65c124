package migrate

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"

	migrationsFS "github.com/Miraines/MoonyAndStarry/shop-service/scripts/db/migrations"
)

func TestMigrationsEmbedded(t *testing.T) {
	src, err := iofs.New(migrationsFS.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	version := first
	count := 1
	for {
		next, err := src.Next(version)
		if err != nil {
			break
		}
		_, _, err = src.ReadDown(next)
		require.NoError(t, err, "migration %d has no down file", next)
		version = next
		count++
	}
	require.Equal(t, 3, count)
}
