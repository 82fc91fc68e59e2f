package testkit

import (
	"fmt"
	"math/rand"

	"mvextras/domain/dataset"
)

// SurveyGeneratorConfig configures the synthetic survey dataset generator
type SurveyGeneratorConfig struct {
	CaseCount   int     `json:"case_count"`
	MissingRate float64 `json:"missing_rate"` // chance income and satisfaction go missing together
	Noise       float64 `json:"noise"`        // std dev of the noise on income
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig returns sensible defaults for survey data generation
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		CaseCount:   500,
		MissingRate: 0.1,
		Noise:       5000,
		Seed:        42,
	}
}

// SurveyAttributes is the attribute list of generated datasets, in table order
func SurveyAttributes() []dataset.Attribute {
	return []dataset.Attribute{
		{Name: "age", Type: "numeric", Unit: "years", Description: "Respondent age"},
		{Name: "income", Type: "numeric", Unit: "USD", Description: "Annual income"},
		{Name: "plan", Type: "categorical", Description: "Subscription plan"},
		{Name: "spend", Type: "numeric", Unit: "USD", Description: "Monthly spend"},
		{Name: "region", Type: "nominal", Description: "Sales region"},
		{Name: "subscribed", Type: "checkbox", Description: "Newsletter opt-in"},
		{Name: "satisfaction", Type: "numeric", Description: "Score 1-10"},
		{Name: "marker", Type: "color", Description: "Map marker colour"},
	}
}

// SurveyDataGenerator generates survey-like cases with known relationships:
// income is linear in age, spend depends on plan, subscribed depends on plan,
// region is independent of everything, and income/satisfaction share missingness.
type SurveyDataGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyDataGenerator creates a new survey data generator
func NewSurveyDataGenerator(config SurveyGeneratorConfig) *SurveyDataGenerator {
	return &SurveyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var planSpend = map[string]float64{"basic": 20, "plus": 45, "pro": 90}

// Generate builds the dataset
func (g *SurveyDataGenerator) Generate() *dataset.Dataset {
	raw := make([]dataset.RawCase, g.config.CaseCount)
	for i := range raw {
		age := 18 + g.rng.Intn(60)
		plan := g.weighted([]string{"basic", "plus", "pro"}, []float64{0.5, 0.3, 0.2})
		values := map[string]any{
			"age":        age,
			"income":     20000 + 1000*float64(age) + g.rng.NormFloat64()*g.config.Noise,
			"plan":       plan,
			"spend":      planSpend[plan] + g.rng.NormFloat64()*5,
			"region":     []string{"north", "south", "east", "west"}[g.rng.Intn(4)],
			"subscribed": plan != "basic" || g.rng.Float64() < 0.2,
			"marker":     []string{"#ff0000", "#00ff00"}[g.rng.Intn(2)],
		}
		values["satisfaction"] = float64(1 + g.rng.Intn(10))
		if g.rng.Float64() < g.config.MissingRate {
			values["income"] = nil
			values["satisfaction"] = ""
		}
		raw[i] = dataset.RawCase{ID: fmt.Sprintf("case_%d", i+1), Values: values}
	}

	ds := dataset.NewDataset("survey", SurveyAttributes(), raw, dataset.EmptyAsMissing)
	ds.Title = "Survey"
	return ds
}

func (g *SurveyDataGenerator) weighted(choices []string, weights []float64) string {
	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[0]
}

// Columns builds a dataset from parallel columns; nil entries are missing.
// Types maps attribute name to raw type, defaulting to numeric.
func Columns(name string, types map[string]string, columns map[string][]any, order ...string) *dataset.Dataset {
	attrs := make([]dataset.Attribute, 0, len(order))
	n := 0
	for _, col := range order {
		typ, ok := types[col]
		if !ok {
			typ = "numeric"
		}
		attrs = append(attrs, dataset.Attribute{Name: col, Type: typ})
		if len(columns[col]) > n {
			n = len(columns[col])
		}
	}
	raw := make([]dataset.RawCase, n)
	for i := range raw {
		values := make(map[string]any, len(order))
		for _, col := range order {
			if i < len(columns[col]) {
				values[col] = columns[col][i]
			}
		}
		raw[i] = dataset.RawCase{ID: fmt.Sprintf("%d", i+1), Values: values}
	}
	return dataset.NewDataset(name, attrs, raw, dataset.EmptyAsMissing)
}

// Floats converts numbers to a column.
func Floats(vs ...float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// Strings converts labels to a column.
func Strings(vs ...string) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
