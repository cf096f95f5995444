package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/spf13/cobra"
)

var (
	inspectSampleRows int
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect database schema and stored rows",
	Long: `Inspect the schema and raw rows of a chat-mirror database.

This command provides detailed information about:
  • Database schema (tables, columns, types)
  • Row counts
  • Sample rows, with the decoded shape of each message body

Examples:
  chat-mirror inspect                        # Inspect the configured database
  chat-mirror inspect /path/to/db.sqlite     # Inspect a specific database
  chat-mirror inspect --sample 10            # Show 10 sample rows per table`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := v.GetString(internal.KeyDB)
		if len(args) > 0 {
			dbPath = args[0]
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}

		return inspectDatabase(cmd.Context(), cmd.OutOrStdout(), dbPath)
	},
}

func inspectDatabase(ctx context.Context, out io.Writer, dbPath string) error {
	db, err := internal.OpenDatabaseReadOnly(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	tables, err := getTables(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	_, _ = fmt.Fprintf(out, "📋 Database: %s\n", dbPath)
	_, _ = fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(tables))

	for _, tableName := range tables {
		if err := inspectTable(ctx, out, db, tableName); err != nil {
			_, _ = fmt.Fprintf(out, "⚠️  Error inspecting table %s: %v\n", tableName, err)
			continue
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

func getTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func inspectTable(ctx context.Context, out io.Writer, db *sql.DB, tableName string) error {
	_, _ = fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	_, _ = fmt.Fprintf(out, "📦 Table: %s\n", tableName)
	_, _ = fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	var rowCount int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to get row count: %w", err)
	}
	_, _ = fmt.Fprintf(out, "📊 Rows: %d\n\n", rowCount)

	columns, err := getTableSchema(ctx, db, tableName)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	_, _ = fmt.Fprintf(out, "📐 Schema:\n")
	for _, col := range columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		_, _ = fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}
	_, _ = fmt.Fprintln(out)

	if rowCount > 0 && inspectSampleRows > 0 {
		if err := showSampleData(ctx, out, db, tableName, columns, inspectSampleRows); err != nil {
			_, _ = fmt.Fprintf(out, "⚠️  Error showing sample data: %v\n", err)
		}
	}

	return nil
}

// ColumnInfo describes one column as reported by PRAGMA table_info
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func getTableSchema(ctx context.Context, db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func showSampleData(ctx context.Context, out io.Writer, db *sql.DB, tableName string, columns []ColumnInfo, limit int) error {
	if len(columns) == 0 {
		return nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = fmt.Sprintf("%q", col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %q ORDER BY rowid DESC LIMIT %d", strings.Join(colNames, ", "), tableName, limit)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	_, _ = fmt.Fprintf(out, "📄 Sample Data (latest %d rows):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			_, _ = fmt.Fprintf(out, "  ⚠️  Row %d: error scanning: %v\n", rowNum, err)
			continue
		}

		_, _ = fmt.Fprintf(out, "\n  Row %d:\n", rowNum)
		role := ""
		for i, col := range columns {
			if col.Name == "role" {
				role = fmt.Sprintf("%v", values[i])
			}
		}
		for i, col := range columns {
			val := values[i]
			if val == nil {
				_, _ = fmt.Fprintf(out, "    %s: <NULL>\n", col.Name)
				continue
			}
			valStr := fmt.Sprintf("%v", val)

			if tableName == "messages" && col.Name == "content" {
				_, _ = fmt.Fprintf(out, "    %s (%s): %s\n", col.Name, describeContent(internal.Role(role), valStr), truncateValue(valStr))
				continue
			}
			_, _ = fmt.Fprintf(out, "    %s: %s\n", col.Name, truncateValue(valStr))
		}
	}

	return rows.Err()
}

// describeContent names the in-memory shape a stored body decodes to
func describeContent(role internal.Role, raw string) string {
	switch c := internal.DecodeContent(role, raw).(type) {
	case internal.Blocks:
		text, images := 0, 0
		for _, b := range c {
			switch b.Kind() {
			case internal.BlockKindText:
				text++
			case internal.BlockKindImageURL:
				images++
			}
		}
		return fmt.Sprintf("blocks: %d text, %d image", text, images)
	default:
		return "text"
	}
}

func truncateValue(s string) string {
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if strings.Contains(s, "\n") {
		s = strings.Split(s, "\n")[0] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
}
