package dataset

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresSource pulls indicator tables out of a PostgreSQL database so they
// can join the catalog alongside the CSV directory.
type PostgresSource struct {
	db *sql.DB
}

// ConnectPostgres opens and pings a connection using a lib/pq connection
// string or postgres:// URL.
func ConnectPostgres(url string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresSource{db: db}, nil
}

func (p *PostgresSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// ListTables returns the table names in the public schema, ordered by name.
func (p *PostgresSource) ListTables() ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name;
	`
	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

// LoadTable reads up to limit rows of a table into the string form shared
// with CSV sources. The table name is validated against ListTables by
// LoadAll; callers passing arbitrary names must do the same.
func (p *PostgresSource) LoadTable(name string, limit int) (*Table, error) {
	query := fmt.Sprintf("SELECT * FROM %q LIMIT %d", name, limit)

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Name: name, Headers: columns}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make([]string, len(columns))
		for i, val := range values {
			switch v := val.(type) {
			case nil:
				record[i] = ""
			case []byte:
				record[i] = string(v)
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		table.Rows = append(table.Rows, record)
	}

	return table, rows.Err()
}

// LoadAll loads every public-schema table, bounded per table by limit.
func (p *PostgresSource) LoadAll(limit int) ([]*Table, error) {
	names, err := p.ListTables()
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		t, err := p.LoadTable(name, limit)
		if err != nil {
			return nil, fmt.Errorf("load table %s: %w", name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
