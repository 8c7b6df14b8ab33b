package pipeline

import "fmt"

// TrainingTable is the denormalized destination table the sync maintains.
const TrainingTable = "ai_disease_training_data"

// SourceTables lists the HOSxP tables the transformation reads, in the order
// the health check probes them.
var SourceTables = []string{
	"opdscreen",
	"vn_stat",
	"icd101",
	"opitemrece",
	"drugitems",
	"hismember",
}

// QueryBuilder renders every SQL statement the sync issues. Both schema
// names are baked in so the statements run on either pool of a server that
// hosts the operational and the AI database side by side.
type QueryBuilder struct {
	SrcDB string
	DstDB string
}

// NewQueryBuilder returns a builder for the given schema pair.
func NewQueryBuilder(srcDB, dstDB string) QueryBuilder {
	return QueryBuilder{SrcDB: srcDB, DstDB: dstDB}
}

func (q QueryBuilder) src(table string) string {
	return "`" + q.SrcDB + "`." + table
}

func (q QueryBuilder) dst() string {
	return "`" + q.DstDB + "`.`" + TrainingTable + "`"
}

// transformSelect renders the shared SELECT body of the transformation.
//
// One output row per (hn, vn, icd10_code, visit_date); the GROUP_CONCAT
// collapses all dispensed drugs of the visit into a pipe-joined list. Only
// visits with a coded, non-blank primary diagnosis are eligible. The age
// expression is the year difference between today and the visit date, not a
// birthdate calculation; the training data consumers rely on it as is.
func (q QueryBuilder) transformSelect(windowed bool) string {
	window := ""
	if windowed {
		window = "\n  AND o.vstdate >= DATE_SUB(NOW(), INTERVAL ? HOUR)"
	}

	return fmt.Sprintf(`SELECT
    CONCAT(o.hn, '-', o.vn) AS visit_id,
    o.hn,
    o.vn,
    COALESCE(o.cc, 'Unknown') AS symptoms,
    COALESCE(i.code, 'Unknown') AS icd10_code,
    COALESCE(i.name, 'Unknown') AS disease_name,
    COALESCE(GROUP_CONCAT(DISTINCT CONCAT(d.name, ' ', COALESCE(d.strength, '')) SEPARATOR '|'), 'Unknown') AS medicines,
    YEAR(CURDATE()) - YEAR(COALESCE(o.vstdate, CURDATE())) AS age,
    COALESCE(h.sex, 'U') AS sex,
    o.vstdate AS visit_date
FROM %s o
LEFT JOIN %s v ON v.vn = o.vn
LEFT JOIN %s i ON i.code = v.pdx
LEFT JOIN %s op ON op.vn = o.vn
LEFT JOIN %s d ON d.icode = op.icode
LEFT JOIN %s h ON h.hn = o.hn
WHERE i.code IS NOT NULL
  AND TRIM(COALESCE(v.pdx, '')) != ''%s
GROUP BY o.hn, o.vn, i.code, o.vstdate`,
		q.src("opdscreen"),
		q.src("vn_stat"),
		q.src("icd101"),
		q.src("opitemrece"),
		q.src("drugitems"),
		q.src("hismember"),
		window)
}

func (q QueryBuilder) insertHeader() string {
	return fmt.Sprintf(`INSERT INTO %s
(visit_id, hn, vn, symptoms, icd10_code, disease_name, medicines, age, sex, visit_date)
`, q.dst())
}

// FullInsert renders the full sync statement. The single bind is the row
// limit; newest visits win when the source exceeds it.
func (q QueryBuilder) FullInsert() string {
	return q.insertHeader() + q.transformSelect(false) + "\nORDER BY o.vstdate DESC\nLIMIT ?"
}

// IncrementalUpsert renders the windowed upsert. The single bind is the
// window in hours. On a visit_id conflict only the clinical payload columns
// are refreshed; hn, vn, sex and visit_date keep their stored values.
func (q QueryBuilder) IncrementalUpsert() string {
	return q.insertHeader() + q.transformSelect(true) + `
ON DUPLICATE KEY UPDATE
    symptoms = VALUES(symptoms),
    disease_name = VALUES(disease_name),
    medicines = VALUES(medicines),
    age = VALUES(age)`
}

// Preview renders the read-only top-10 variant of the transformation for
// execution against the source pool.
func (q QueryBuilder) Preview() string {
	return q.transformSelect(false) + "\nORDER BY o.vstdate DESC\nLIMIT 10"
}

// SourceCount counts the visit anchor table; full sync short-circuits to
// zero stats when it is empty.
func (q QueryBuilder) SourceCount() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", q.src("opdscreen"))
}

// SourceTableCount counts one probed source table.
func (q QueryBuilder) SourceTableCount(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", q.src(table))
}

// DestinationCount counts the training table.
func (q QueryBuilder) DestinationCount() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", q.dst())
}

// Truncate renders the full sync table clear.
func (q QueryBuilder) Truncate() string {
	return fmt.Sprintf("TRUNCATE TABLE %s", q.dst())
}

// CreateTrainingTable renders the idempotent destination DDL. The visit_id
// unique key is what incremental upserts collide on.
func (q QueryBuilder) CreateTrainingTable() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    visit_id VARCHAR(50) UNIQUE NOT NULL,
    hn VARCHAR(9),
    vn VARCHAR(13),
    symptoms LONGTEXT,
    icd10_code VARCHAR(9),
    disease_name VARCHAR(255),
    medicines LONGTEXT,
    age INT,
    sex CHAR(1),
    visit_date DATE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_hn (hn),
    INDEX idx_vn (vn),
    INDEX idx_icd10 (icd10_code),
    INDEX idx_visit_date (visit_date),
    INDEX idx_age (age)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, q.dst())
}

// VerifyMetric pairs a report label with the aggregate query producing it.
type VerifyMetric struct {
	Name string
	SQL  string
}

// VerifyMetrics lists the destination quality metrics in report order.
func (q QueryBuilder) VerifyMetrics() []VerifyMetric {
	return []VerifyMetric{
		{"Total Records", fmt.Sprintf("SELECT COUNT(*) FROM %s", q.dst())},
		{"Unique Patients (HN)", fmt.Sprintf("SELECT COUNT(DISTINCT hn) FROM %s WHERE hn IS NOT NULL", q.dst())},
		{"Unique Diseases (ICD10)", fmt.Sprintf("SELECT COUNT(DISTINCT icd10_code) FROM %s WHERE icd10_code != 'Unknown'", q.dst())},
		{"Records with Unknown Symptoms", fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE symptoms = 'Unknown'", q.dst())},
		{"Records with Unknown Disease", fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE disease_name = 'Unknown'", q.dst())},
		{"Average Age", fmt.Sprintf("SELECT ROUND(AVG(age), 1) FROM %s WHERE age > 0", q.dst())},
	}
}
