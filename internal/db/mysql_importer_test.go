package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mysqlColumnColumns = []string{"column_name", "data_type", "column_type", "is_nullable", "column_default", "extra", "is_unique"}

func TestMySQLImporter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows(mysqlColumnColumns).
			AddRow("id", "char", "char(36)", "NO", nil, "", false).
			AddRow("number", "int", "int", "NO", nil, "auto_increment", true).
			AddRow("status", "varchar", "varchar(20)", "NO", "pending", "", false).
			AddRow("paid", "tinyint", "tinyint(1)", "NO", "0", "", false).
			AddRow("placed_at", "datetime", "datetime", "NO", "CURRENT_TIMESTAMP", "DEFAULT_GENERATED", false).
			AddRow("total", "decimal", "decimal(10,2)", "NO", "0.00", "", false).
			AddRow("meta", "json", "json", "YES", nil, "", false).
			AddRow("location", "point", "point", "YES", nil, "", false))

	logger, logs := newTestLogger()
	importer := NewMySQLImporter(NewMySQLClientFromDB(db), "shop", logger)

	schemas, err := importer.Import(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	assert.Equal(t, "CREATE TABLE orders ("+systemColumnsSQL+", number BIGSERIAL, "+
		"status VARCHAR(255) NOT NULL DEFAULT 'pending', paid BOOLEAN NOT NULL DEFAULT false, "+
		"placed_at TIMESTAMP WITHOUT TIME ZONE NOT NULL, total DOUBLE PRECISION NOT NULL DEFAULT 0.00, "+
		"meta JSON, location TEXT, CONSTRAINT orders_number_key UNIQUE (number));", schemas[0].SQL())
	assert.Contains(t, logs.String(), "column=location")
	assert.Contains(t, logs.String(), "column=placed_at")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLImporterQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("shop", "orders").
		WillReturnError(errors.New("access denied"))

	logger, _ := newTestLogger()
	_, err = NewMySQLImporter(NewMySQLClientFromDB(db), "shop", logger).Import(context.Background(), []string{"orders"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to import table orders")
	assert.Contains(t, err.Error(), "access denied")
}
