// Paquete sqlitetest abre una base SQLite en memoria con el esquema completo para pruebas.
package sqlitetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marcelojr/rifaparatodos/internal/platform/migrations"
)

// Open usa una sola conexion: cada conexion a ":memory:" tendria su propia base.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.Run(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
