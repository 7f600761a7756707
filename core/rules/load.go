package rules

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"solar-estimate/core/estimate"
	"solar-estimate/internal/errors"
)

//go:embed defaults/pricing_rules.hcl
var defaultDocument []byte

// DefaultFilename is the name reported for the embedded rule document
const DefaultFilename = "pricing_rules.hcl"

// document is the HCL shape of a rule file:
//
//	tax_rate        = 0.10
//	discount_method = "round_down_10000"
//
//	category "construction" {
//	  item {
//	    no          = 1
//	    description = "太陽光パネル設置工事"
//	    method      = "kw_rate"
//	    unit_price  = 3300
//	  }
//	}
type document struct {
	Version        string          `hcl:"version,optional"`
	TaxRate        *float64        `hcl:"tax_rate,optional"`
	DiscountMethod *string         `hcl:"discount_method,optional"`
	Categories     []categoryBlock `hcl:"category,block"`
}

type categoryBlock struct {
	Name  string      `hcl:"name,label"`
	Items []itemBlock `hcl:"item,block"`
}

type itemBlock struct {
	No              int    `hcl:"no"`
	Description     string `hcl:"description"`
	Remarks         string `hcl:"remarks,optional"`
	RemarksTemplate string `hcl:"remarks_template,optional"`
	Quantity        string `hcl:"quantity,optional"`
	QuantitySource  string `hcl:"quantity_source,optional"`
	QuantityUnit    string `hcl:"quantity_unit,optional"`
	UnitPrice       int64  `hcl:"unit_price,optional"`
	Method          string `hcl:"method,optional"`
	Condition       string `hcl:"condition,optional"`
	IsManual        bool   `hcl:"is_manual,optional"`
	Note            string `hcl:"note,optional"`
}

// Load reads a rule document from disk. Files ending in .json are read as
// HCL's JSON syntax, everything else as native HCL.
func Load(path string) (*RuleSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("failed to read rule document "+path, err)
	}
	return Parse(path, src)
}

// LoadDefault decodes the rule document compiled into the binary
func LoadDefault() (*RuleSet, error) {
	return Parse(DefaultFilename, defaultDocument)
}

// DefaultDocument returns the embedded rule document source
func DefaultDocument() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}

// Parse decodes and validates a rule document. filename selects the syntax
// and is used in diagnostics.
func Parse(filename string, src []byte) (*RuleSet, error) {
	parser := hclparse.NewParser()

	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, errors.Config("invalid rule document", diags)
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Config("invalid rule document", diags)
	}

	return doc.ruleSet()
}

func (d *document) ruleSet() (*RuleSet, error) {
	p := Params{
		Version:        d.Version,
		TaxRate:        DefaultTaxRate,
		DiscountMethod: estimate.DiscountRoundDown10000,
	}
	if d.TaxRate != nil {
		p.TaxRate = decimal.NewFromFloat(*d.TaxRate)
	}
	if d.DiscountMethod != nil {
		p.DiscountMethod = estimate.DiscountMethod(strings.TrimSpace(*d.DiscountMethod))
		if !p.DiscountMethod.Valid() {
			return nil, errors.Configf("unknown discount method %q", *d.DiscountMethod)
		}
	}

	items := make(map[estimate.Category][]ItemDef, len(d.Categories))
	for _, block := range d.Categories {
		cat, err := estimate.ParseCategory(block.Name)
		if err != nil {
			return nil, errors.Config("invalid rule document", err)
		}
		if _, dup := items[cat]; dup {
			return nil, errors.Configf("category %q is declared more than once", block.Name)
		}

		defs := make([]ItemDef, 0, len(block.Items))
		for _, it := range block.Items {
			method, err := estimate.ParseMethod(it.Method)
			if err != nil {
				return nil, errors.Wrapf(errors.TypeConfig, err, "%s item %d", cat, it.No)
			}
			defs = append(defs, ItemDef{
				No:              it.No,
				Description:     it.Description,
				Remarks:         it.Remarks,
				RemarksTemplate: it.RemarksTemplate,
				Quantity:        it.Quantity,
				QuantitySource:  it.QuantitySource,
				QuantityUnit:    it.QuantityUnit,
				UnitPrice:       it.UnitPrice,
				Method:          method,
				Condition:       it.Condition,
				IsManual:        it.IsManual,
				Note:            it.Note,
			})
		}
		items[cat] = defs
	}

	return New(p, items)
}
