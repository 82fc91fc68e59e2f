package stats

import (
	"time"
)

// ============================================================================
// ASSOCIATION RESULTS
// ============================================================================

// MeasureType names the association measure computed for a pair.
type MeasureType string

const (
	MeasurePearson                    MeasureType = "Pearson"
	MeasureEta                        MeasureType = "eta"
	MeasureCramersV                   MeasureType = "CramersV"
	MeasureNumericPredictsCategorical MeasureType = "NumericPredictsCategorical"
	MeasureUnsupported                MeasureType = "Unsupported"
)

// Association is the normalized result for one ordered (predictor, response) pair.
//
// Measure is on a -1..1 scale for Pearson and 0..1 otherwise. MeasureInclMissing and
// PValueInclMissing are only set for measures that can treat missing as a category.
type Association struct {
	Predictor              string      `json:"predictor"`
	Response               string      `json:"response"`
	MeasureType            MeasureType `json:"measure_type"`
	Measure                Stat        `json:"measure"`
	NCompleteCases         int         `json:"n_complete_cases"`
	TotalCases             int         `json:"total_cases"`
	NMissingX              int         `json:"n_missing_x"`
	NMissingY              int         `json:"n_missing_y"`
	MissingnessCorrelation Stat        `json:"missingness_correlation"`
	CILow                  Stat        `json:"ci_low"`
	CIHigh                 Stat        `json:"ci_high"`
	PValue                 Stat        `json:"p_value"`
	MeasureInclMissing     Stat        `json:"measure_incl_missing"`
	PValueInclMissing      Stat        `json:"p_value_incl_missing"`
	CIDiagnostic           string      `json:"ci_diagnostic,omitempty"`
}

// AssociationRecord is the persisted/exported row for one pair. JSON names are consumed by
// downstream tables and must not change.
type AssociationRecord struct {
	ID                     string      `json:"-" db:"id"`
	TableName              string      `json:"TableName" db:"table_name"`
	Predictor              string      `json:"Predictor" db:"predictor"`
	Response               string      `json:"Response" db:"response"`
	Correlation            Stat        `json:"correlation" db:"correlation"`
	CorrelationType        MeasureType `json:"correlationType" db:"correlation_type"`
	NNeitherMissing        int         `json:"nNeitherMissing" db:"n_neither_missing"`
	NCases                 int         `json:"nCases" db:"n_cases"`
	NBlanks1               int         `json:"nBlanks1" db:"n_blanks1"`
	NBlanks2               int         `json:"nBlanks2" db:"n_blanks2"`
	CorrelBlanks           Stat        `json:"correlBlanks" db:"correl_blanks"`
	CILow95                Stat        `json:"CI_low95" db:"ci_low95"`
	CIHigh95               Stat        `json:"CI_high95" db:"ci_high95"`
	PValue                 Stat        `json:"p_value" db:"p_value"`
	CorrelationInclMissing Stat        `json:"correlation_incl_missing" db:"correlation_incl_missing"`
	PValueInclMissing      Stat        `json:"p_value_incl_missing" db:"p_value_incl_missing"`
	Date                   time.Time   `json:"date" db:"computed_at"`
	Type1                  string      `json:"type1" db:"type1"`
	Unit1                  string      `json:"unit1" db:"unit1"`
	Type2                  string      `json:"type2" db:"type2"`
	Unit2                  string      `json:"unit2" db:"unit2"`
	Description1           string      `json:"description1" db:"description1"`
	Description2           string      `json:"description2" db:"description2"`
	TableOrderPredictor    string      `json:"table_order_Predictor" db:"table_order_predictor"`
	TableOrderResponse     string      `json:"table_order_Response" db:"table_order_response"`
}

// ============================================================================
// REGRESSION RESULTS
// ============================================================================

// InterceptTerm labels the intercept row of a regression run.
const InterceptTerm = "(Intercept)"

// RegressionRow is one term of a regression run. Every row of a run carries the same fit
// statistics.
type RegressionRow struct {
	ID                  string    `json:"-" db:"id"`
	RunID               int       `json:"run_id" db:"run_id"`
	TableName           string    `json:"TableName" db:"table_name"`
	Response            string    `json:"Response" db:"response"`
	Term                string    `json:"Term" db:"term"`
	Coefficient         float64   `json:"coefficient" db:"coefficient"`
	RSquared            Stat      `json:"r_squared" db:"r_squared"`
	AdjRSquared         Stat      `json:"adj_r_squared" db:"adj_r_squared"`
	Sigma               Stat      `json:"sigma" db:"sigma"`
	DegreesFreedom      int       `json:"df" db:"df"`
	ResidualDF          int       `json:"residual_df" db:"residual_df"`
	NObservationsUsed   int       `json:"n_used" db:"n_used"`
	NObservationsTotal  int       `json:"n_total" db:"n_total"`
	Converged           bool      `json:"converged" db:"converged"`
	IterationsUsed      int       `json:"iterations" db:"iterations"`
	Note                string    `json:"note" db:"note"`
	Formula             string    `json:"formula" db:"formula"`
	PredictorsAttempted string    `json:"predictors_attempted" db:"predictors_attempted"`
	NTermsAttempted     int       `json:"n_terms_attempted" db:"n_terms_attempted"`
	PredictorsUsed      string    `json:"predictors_used" db:"predictors_used"`
	NTermsUsed          int       `json:"n_terms_used" db:"n_terms_used"`
	Date                time.Time `json:"date" db:"computed_at"`
}

// ============================================================================
// ATTRIBUTE PROFILES
// ============================================================================

// AttributeProfile summarizes one attribute. Numeric fields are unset for categorical
// attributes and Mode is empty for numeric ones.
type AttributeProfile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Kind        string `json:"kind"`
	Count       int    `json:"count"`
	Missing     int    `json:"missing"`
	MissingRate Stat   `json:"missing_rate"`
	Distinct    int    `json:"distinct"`
	Mode        string `json:"mode,omitempty"`
	Mean        Stat   `json:"mean"`
	StdDev      Stat   `json:"std_dev"`
	Median      Stat   `json:"median"`
	Min         Stat   `json:"min"`
	Max         Stat   `json:"max"`
	Hidden      bool   `json:"hidden"`
}
