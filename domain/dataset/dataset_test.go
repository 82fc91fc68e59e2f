package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvextras/domain/core"
)

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		"":            KindCategorical,
		"categorical": KindCategorical,
		"checkbox":    KindCategorical,
		"nominal":     KindCategorical,
		"numeric":     KindNumeric,
		"date":        KindNumeric,
		"qualitative": KindNumeric,
		"boundary":    KindOther,
		"color":       KindOther,
		"pixels":      KindOther,
	}
	for raw, want := range cases {
		assert.Equal(t, want, Classify(raw), "raw type %q", raw)
	}
}

func TestNewValueNumericReading(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		want   float64
		wantOK bool
	}{
		{"float", 2.5, 2.5, true},
		{"int", 7, 7, true},
		{"numeric string", " 3.25 ", 3.25, true},
		{"text", "apple", 0, false},
		{"nil", nil, 0, false},
		{"empty", "", 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf string", "Inf", 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewValue(tt.raw, EmptyAsMissing).AsNumber()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewValueCategoricalReading(t *testing.T) {
	label, ok := NewValue("red", EmptyAsMissing).AsCategory()
	assert.True(t, ok)
	assert.Equal(t, "red", label)

	label, ok = NewValue(3.0, EmptyAsMissing).AsCategory()
	assert.True(t, ok)
	assert.Equal(t, "3", label)

	label, ok = NewValue(false, EmptyAsMissing).AsCategory()
	assert.True(t, ok)
	assert.Equal(t, "false", label)

	_, ok = NewValue(nil, EmptyAsCategory).AsCategory()
	assert.False(t, ok)
}

func TestEmptyStringPolicy(t *testing.T) {
	missing := NewValue("", EmptyAsMissing)
	assert.True(t, missing.IsMissing(KindCategorical))
	assert.True(t, missing.IsMissing(KindNumeric))

	category := NewValue("", EmptyAsCategory)
	label, ok := category.AsCategory()
	assert.True(t, ok)
	assert.Equal(t, "", label)
	assert.False(t, category.IsMissing(KindCategorical))
	assert.True(t, category.IsMissing(KindNumeric), "empty string never parses as a number")
}

func TestParseEmptyStringPolicy(t *testing.T) {
	p, err := ParseEmptyStringPolicy("")
	require.NoError(t, err)
	assert.Equal(t, EmptyAsMissing, p)

	p, err = ParseEmptyStringPolicy("Category")
	require.NoError(t, err)
	assert.Equal(t, EmptyAsCategory, p)

	_, err = ParseEmptyStringPolicy("blank")
	assert.Error(t, err)
}

func TestValueJSON(t *testing.T) {
	c := Case{ID: "1", Values: map[string]Value{
		"n": Number(4),
		"s": Text("x", EmptyAsMissing),
		"m": Missing(),
		"t": Text("007", EmptyAsMissing),
	}}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","values":{"n":4,"s":"x","m":null,"t":"007"}}`, string(data))

	var back Case
	require.NoError(t, json.Unmarshal(data, &back))
	n, ok := back.Value("n").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)
	assert.True(t, back.Value("m").IsMissing(KindCategorical))
	assert.True(t, back.Value("absent").IsMissing(KindNumeric))
}

func TestDatasetLookups(t *testing.T) {
	ds := NewDataset("people", []Attribute{
		{Name: "age", Type: "numeric", Unit: "years"},
		{Name: "sex", Type: "categorical"},
	}, []RawCase{
		{Values: map[string]any{"age": 31, "sex": "F"}},
		{ID: "b", Values: map[string]any{"age": "", "sex": nil}},
	}, EmptyAsMissing)

	assert.Equal(t, "people", ds.DisplayName())
	ds.Title = "People"
	assert.Equal(t, "People", ds.DisplayName())
	assert.Equal(t, 2, ds.CaseCount())
	assert.NotEmpty(t, ds.Cases[0].ID)
	assert.Equal(t, "b", ds.Cases[1].ID)

	attr, err := ds.Attribute("age")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, attr.Kind())

	_, err = ds.Attribute("height")
	assert.ErrorIs(t, err, core.ErrAttributeNotFound)
}
