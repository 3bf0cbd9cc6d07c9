package plugins

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/metrics"
)

const startTimeKey = "metrics:start_time"

var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)INSERT\s+INTO\s+["\x60]?(\w+)["\x60]?`),
	regexp.MustCompile(`(?i)DELETE\s+FROM\s+["\x60]?(\w+)["\x60]?`),
	regexp.MustCompile(`(?i)UPDATE\s+["\x60]?(\w+)["\x60]?`),
	regexp.MustCompile(`(?i)FROM\s+["\x60]?(\w+)["\x60]?`),
}

// MetricsPlugin is a GORM plugin that tracks database query metrics
type MetricsPlugin struct{}

func NewMetricsPlugin() *MetricsPlugin {
	return &MetricsPlugin{}
}

func (p *MetricsPlugin) Name() string {
	return "MetricsPlugin"
}

func (p *MetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name   string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"query", cb.Query().Before("*").Register, cb.Query().After("*").Register},
		{"create", cb.Create().Before("*").Register, cb.Create().After("*").Register},
		{"update", cb.Update().Before("*").Register, cb.Update().After("*").Register},
		{"delete", cb.Delete().Before("*").Register, cb.Delete().After("*").Register},
		{"raw", cb.Raw().Before("*").Register, cb.Raw().After("*").Register},
	}
	for _, h := range hooks {
		if err := h.before("metrics:before_"+h.name, p.before); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+h.name, p.after); err != nil {
			return err
		}
	}
	return nil
}

func (p *MetricsPlugin) before(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func (p *MetricsPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(startTimeKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}

	operation := getOperationType(db)
	status := "success"
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		status = "error"
	}

	table := getTableName(db)
	metrics.DBQueriesTotal().WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration().WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if operation != "SELECT" && db.RowsAffected >= 0 {
		metrics.DBRowsAffected().WithLabelValues(operation, table).Observe(float64(db.RowsAffected))
	}
}

// getOperationType extracts the operation type from the SQL statement
func getOperationType(db *gorm.DB) string {
	if db.Statement == nil {
		return "UNKNOWN"
	}
	sql := strings.ToUpper(strings.TrimSpace(db.Statement.SQL.String()))
	if sql == "" {
		return "UNKNOWN"
	}
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

// getTableName extracts the table name from the GORM statement
func getTableName(db *gorm.DB) string {
	if db.Statement == nil {
		return "unknown"
	}
	if db.Statement.Table != "" {
		return db.Statement.Table
	}
	if name := extractTableFromSQL(db.Statement.SQL.String()); name != "" {
		return name
	}
	return "unknown"
}

func extractTableFromSQL(sql string) string {
	for _, re := range tablePatterns {
		if m := re.FindStringSubmatch(sql); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
