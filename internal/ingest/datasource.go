package ingest

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"fieldscope/internal/models"
)

// DataSourceConfig holds connection details for a legacy database.
type DataSourceConfig struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// DataSource lets legacy database tables be ingested as reports
// alongside uploaded files.
type DataSource interface {
	Connect(config DataSourceConfig) error
	Close() error
	ListTables() ([]string, error)
	TableReport(tableName string, sampleLimit int) (*models.Report, error)
}

// PostgresDataSource implements DataSource for PostgreSQL.
type PostgresDataSource struct {
	db *sql.DB
}

func (p *PostgresDataSource) Connect(config DataSourceConfig) error {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}

	p.db = db
	return nil
}

func (p *PostgresDataSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDataSource) ListTables() ([]string, error) {
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

// TableReport reads a table's column names plus a row sample and shapes
// them as a report. tableName must come from ListTables; it is
// interpolated into the query.
func (p *PostgresDataSource) TableReport(tableName string, sampleLimit int) (*models.Report, error) {
	if err := p.validateTable(tableName); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, tableName, sampleLimit)
	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	sample := [][]string{}
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
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		sample = append(sample, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.Report{
		FileName:  "db:" + tableName,
		SheetName: "",
		Name:      "db:" + tableName,
		Headers:   columns,
		Rows:      sample,
	}, nil
}

// validateTable whitelists the table name against the catalog before it
// is interpolated into a query.
func (p *PostgresDataSource) validateTable(tableName string) error {
	tables, err := p.ListTables()
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == tableName {
			return nil
		}
	}
	return fmt.Errorf("unknown table %q", tableName)
}
