// Package diseasesync moves clinical visit data from an operational HOSxP
// MySQL database into a denormalized training table consumed by disease
// prediction models.
//
// The tool is a single sequential CLI. Every run connects to the source and
// destination pools, makes sure the training table exists, then executes one
// of five modes:
//
//   - full sync: clears the training table and bulk-loads the newest
//     eligible visits with one INSERT ... SELECT, capped by ROW_LIMIT
//   - incremental sync: upserts visits from a trailing window of hours
//     using INSERT ... ON DUPLICATE KEY UPDATE
//   - health check: row counts for the six source tables and the
//     training table
//   - preview: prints the top 10 transformed rows without writing
//   - verify: prints aggregate quality metrics of the training table
//
// # Transformation
//
// Eligible visits are those whose primary diagnosis (vn_stat.pdx) is
// non-blank and resolves in the ICD-10 catalog (icd101). Each output row is
// one (hn, vn, diagnosis, visit date) group: chief complaint and
// demographics come along via LEFT JOINs, and every drug dispensed during
// the visit is collapsed into a single pipe-separated medicines column.
// Missing values become 'Unknown' ('U' for sex) so the table never feeds
// NULLs to a model. The row key is visit_id, CONCAT(hn, '-', vn), and it is
// unique; incremental conflicts refresh only the clinical payload columns.
//
// # Key Packages
//
//	cmd/disease-sync  - cobra CLI entry point
//	internal/pipeline - run modes, SQL builder, engine, health and verify
//	pkg/config        - environment configuration via viper and godotenv
//	pkg/sqlconn       - MySQL pool construction and scalar query helpers
//	pkg/errors        - structured error handling with typed categories
//	pkg/logger        - zap logging to console and logs/disease-sync.log
//	pkg/metrics       - Prometheus instruments and the run monitor
//	pkg/json          - goccy/go-json wrapper for --json report output
//
// # Configuration
//
// Configuration is environment-only. A .env file in the working directory
// is loaded first when present:
//
//	DB_SRC_HOST / DB_SRC_PORT / DB_SRC_USER / DB_SRC_PASS
//	DB_DST_HOST / DB_DST_PORT / DB_DST_USER / DB_DST_PASS
//	SRC_DATABASE (default hos)     DST_DATABASE (default hos_ai)
//	BATCH_SIZE   (default 500)     ROW_LIMIT    (default 50000)
//	MAX_WORKERS  (default cores-1) LOG_LEVEL    (default info)
//
// # Usage
//
//	disease-sync                  # full sync
//	disease-sync incremental 48   # upsert the last 48 hours
//	disease-sync health --json
//	disease-sync preview
//	disease-sync verify
//	disease-sync version
package diseasesync
