package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepsAreIdempotent(t *testing.T) {
	steps := Steps()
	assert.Len(t, steps, 3)
	for _, step := range steps {
		assert.NotEmpty(t, step.Name)
		assert.Contains(t, step.SQL, "IF NOT EXISTS", step.Name)
	}
}

func TestStatColumnsAreNullable(t *testing.T) {
	for _, col := range []string{"correlation", "correl_blanks", "ci_low95", "p_value_incl_missing"} {
		line := columnLine(createAssociationRecords, col)
		assert.NotEmpty(t, line, col)
		assert.NotContains(t, line, "NOT NULL", col)
	}
	assert.NotContains(t, columnLine(createRegressionRows, "r_squared"), "NOT NULL")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", NewRunner().Version())
}

func columnLine(ddl, column string) string {
	for _, line := range strings.Split(ddl, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == column {
			return line
		}
	}
	return ""
}
