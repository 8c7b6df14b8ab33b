package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHealth(t *testing.T) {
	rep := HealthReport{Tables: []TableStatus{
		{Database: "hos", Table: "opdscreen", Role: "source", Rows: 1500},
		{Database: "hos", Table: "drugitems", Role: "source", Empty: true},
		{Database: "hos", Table: "icd101", Role: "source", Error: "timeout"},
		{Database: "hos_ai", Table: TrainingTable, Role: "destination", Rows: 900},
	}}

	out := RenderHealth(rep)

	assert.Contains(t, out, "=== HEALTH CHECK ===")
	assert.Contains(t, out, "[source] hos.opdscreen: 1500 rows")
	assert.Contains(t, out, "[source] hos.drugitems: EMPTY")
	assert.Contains(t, out, "[source] hos.icd101: ERROR timeout")
	assert.Contains(t, out, "[destination] hos_ai.ai_disease_training_data: 900 rows")
	assert.Contains(t, out, "tables=4 empty=1 failed=1")
}

func TestRenderVerify(t *testing.T) {
	rep := VerifyReport{Metrics: []MetricResult{
		{Name: "Total Records", Value: "1250"},
		{Name: "Average Age", Value: "N/A"},
		{Name: "Unique Patients (HN)", Value: "N/A", Error: "timeout"},
	}}

	out := RenderVerify(rep)

	assert.Contains(t, out, "=== DATA INTEGRITY VERIFICATION ===")
	assert.Contains(t, out, "Total Records: 1250")
	assert.Contains(t, out, "Average Age: N/A")
	assert.Contains(t, out, "Unique Patients (HN): ERROR timeout")
}

func TestRenderPreview(t *testing.T) {
	out := RenderPreview([]Record{
		{HN: "123456", VN: "650101123456", DiseaseName: "Dengue fever", Age: 34},
		{HN: "654321", VN: "650101654321", DiseaseName: "Unknown", Age: 0},
	})

	assert.Contains(t, out, "=== PREVIEW: 2 records ===")
	assert.Contains(t, out, "[1] HN=123456, VN=650101123456, Disease=Dengue fever, Age=34")
	assert.Contains(t, out, "[2] HN=654321, VN=650101654321, Disease=Unknown, Age=0")
}

func TestRenderPreviewEmpty(t *testing.T) {
	assert.Contains(t, RenderPreview(nil), "=== PREVIEW: 0 records ===")
}
