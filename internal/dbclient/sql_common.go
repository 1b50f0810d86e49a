package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/record"
)

// sqlConnector is the shared implementation for MySQL, Postgres, and SQLite.
type sqlConnector struct {
	driverName string
	db         *sql.DB
}

// newSQLConnector creates a generic SQL connector.
func newSQLConnector(driverName, dsn string) (*sqlConnector, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Small pool: a sink writes one dataset at a time
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	return &sqlConnector{driverName: driverName, db: db}, nil
}

func (c *sqlConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

// Write creates the target table if missing and inserts every record in one
// transaction. Replace mode empties the table first.
func (c *sqlConnector) Write(ctx context.Context, table string, ds record.Dataset, mode etl.WriteMode) (int, error) {
	if table == "" {
		return 0, fmt.Errorf("%s sink: target table is required", c.driverName)
	}
	if len(ds) == 0 {
		return 0, nil
	}
	cols := etl.InferColumns(ds)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if _, err := c.db.ExecContext(ctx, c.createTableSQL(table, cols)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if mode == etl.WriteReplace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+c.quote(table)); err != nil {
			return 0, fmt.Errorf("clear target: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, c.insertSQL(table, cols))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i, rec := range ds {
		args := make([]any, len(cols))
		for j, col := range cols {
			v, _ := rec.Get(col.Name)
			if args[j], err = sqlValue(v); err != nil {
				return 0, fmt.Errorf("row %d column %q: %w", i, col.Name, err)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

func (c *sqlConnector) createTableSQL(table string, cols []etl.Column) string {
	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = c.quote(col.Name) + " " + c.columnType(col.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", c.quote(table), strings.Join(defs, ", "))
}

func (c *sqlConnector) insertSQL(table string, cols []etl.Column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		names[i] = c.quote(col.Name)
		marks[i] = c.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.quote(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

func (c *sqlConnector) placeholder(n int) string {
	if c.driverName == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (c *sqlConnector) quote(ident string) string {
	if c.driverName == "mysql" {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (c *sqlConnector) columnType(t string) string {
	switch t {
	case etl.TypeInteger:
		return "BIGINT"
	case etl.TypeReal:
		if c.driverName == "postgres" {
			return "DOUBLE PRECISION"
		}
		return "DOUBLE"
	case etl.TypeBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// sqlValue converts a record value into a driver argument.
// Nested records and lists are stored as JSON text.
func sqlValue(v any) (any, error) {
	switch t := v.(type) {
	case record.Record, []any, map[string]any:
		b, err := json.MarshalNoEscape(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return v, nil
	}
}

func (c *sqlConnector) Introspect(ctx context.Context) (*SchemaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch c.driverName {
	case "sqlite":
		return c.introspectSQLite(ctx)
	default:
		return c.introspectInfoSchema(ctx)
	}
}

// introspectInfoSchema works for MySQL and Postgres via INFORMATION_SCHEMA.
func (c *sqlConnector) introspectInfoSchema(ctx context.Context) (*SchemaInfo, error) {
	tablesQuery := `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = DATABASE() ORDER BY TABLE_NAME`
	columnsQuery := `SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
	if c.driverName == "postgres" {
		tablesQuery = `SELECT table_name FROM information_schema.tables
		 WHERE table_schema = current_schema() ORDER BY table_name`
		columnsQuery = `SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_name = $1 ORDER BY ordinal_position`
	}

	rows, err := c.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tableNames = append(tableNames, name)
	}

	schema := &SchemaInfo{}
	for _, tbl := range tableNames {
		colRows, err := c.db.QueryContext(ctx, columnsQuery, tbl)
		if err != nil {
			schema.Tables = append(schema.Tables, TableInfo{Name: tbl})
			continue
		}

		var cols []ColumnInfo
		for colRows.Next() {
			var ci ColumnInfo
			if err := colRows.Scan(&ci.Name, &ci.Type); err != nil {
				continue
			}
			cols = append(cols, ci)
		}
		colRows.Close()

		schema.Tables = append(schema.Tables, TableInfo{Name: tbl, Columns: cols})
	}

	return schema, nil
}

// introspectSQLite uses sqlite_master + PRAGMA table_info.
func (c *sqlConnector) introspectSQLite(ctx context.Context) (*SchemaInfo, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tableNames = append(tableNames, name)
	}
	rows.Close()

	schema := &SchemaInfo{}
	for _, tbl := range tableNames {
		pragmaRows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", c.quote(tbl)))
		if err != nil {
			schema.Tables = append(schema.Tables, TableInfo{Name: tbl})
			continue
		}

		var cols []ColumnInfo
		for pragmaRows.Next() {
			var cid int
			var name, colType string
			var notNull, pk int
			var dfltValue sql.NullString
			if err := pragmaRows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
				continue
			}
			cols = append(cols, ColumnInfo{Name: name, Type: colType})
		}
		pragmaRows.Close()

		schema.Tables = append(schema.Tables, TableInfo{Name: tbl, Columns: cols})
	}

	return schema, nil
}

func (c *sqlConnector) Close() error {
	return c.db.Close()
}
