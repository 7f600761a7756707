package estimate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOrderAndLabels(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)

	want := []struct {
		cat   Category
		num   int
		label string
	}{
		{CategorySupplied, 1, "支給品"},
		{CategoryMaterial, 2, "材料費"},
		{CategoryConstruction, 3, "施工費"},
		{CategoryOverhead, 4, "その他・諸経費等"},
		{CategoryAdditional, 5, "付帯工事"},
		{CategorySpecialNotes, 6, "特記事項"},
	}
	for i, w := range want {
		assert.Equal(t, w.cat, cats[i])
		assert.Equal(t, w.num, w.cat.Number())
		assert.Equal(t, w.label, w.cat.Label())
	}

	_, err := ParseCategory("misc")
	assert.Error(t, err)
	c, err := ParseCategory(" overhead ")
	require.NoError(t, err)
	assert.Equal(t, CategoryOverhead, c)
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodFixed, false},
		{"fixed", MethodFixed, false},
		{"kw_rate", MethodKWRate, false},
		{"conditional", MethodConditional, false},
		{"distance", MethodDistance, false},
		{"manual", MethodManual, false},
		{"supplied", MethodSupplied, false},
		{"per_panel", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMethodJSON(t *testing.T) {
	data, err := json.Marshal(Reasoning{Method: MethodKWRate, Formula: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"kw_rate","formula":"x"}`, string(data))

	var r Reasoning
	require.NoError(t, json.Unmarshal([]byte(`{"method":"supplied"}`), &r))
	assert.Equal(t, MethodSupplied, r.Method)

	assert.Error(t, json.Unmarshal([]byte(`{"method":"bogus"}`), &r))
}

func TestSectionTotals(t *testing.T) {
	s := NewSection(CategoryMaterial)
	assert.Equal(t, 2, s.Number)
	s.Items = append(s.Items, &LineItem{Amount: 450000}, &LineItem{Amount: 0}, &LineItem{Amount: 202500})
	s.CalculateTotals()

	assert.Equal(t, int64(652500), s.Subtotal)
	assert.Equal(t, s.Subtotal, s.Total)
}

func TestVisibleSectionsDropsEmptySpecialNotes(t *testing.T) {
	e := &Estimate{}
	for _, c := range Categories() {
		e.Summary.Categories = append(e.Summary.Categories, NewSection(c))
	}
	visible := e.VisibleSections()
	require.Len(t, visible, 5)
	assert.Equal(t, CategoryAdditional, visible[4].Category)

	e.Section(CategorySpecialNotes).Items = append(e.Section(CategorySpecialNotes).Items, &LineItem{No: 1})
	assert.Len(t, e.VisibleSections(), 6)
}

func TestSyncCover(t *testing.T) {
	e := &Estimate{Summary: Summary{TotalBeforeTax: 9230000, Tax: 923000, TotalWithTax: 10153000}}
	e.SyncCover()
	assert.Equal(t, int64(10153000), e.Cover.TotalWithTax)
	assert.Equal(t, int64(9230000), e.Cover.TotalBeforeTax)
	assert.Equal(t, int64(923000), e.Cover.Tax)
}
