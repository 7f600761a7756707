// Package engine provides the estimate engine.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solar-estimate/core/estimate"
	"solar-estimate/core/explanation"
	"solar-estimate/core/expression"
	"solar-estimate/core/pricing"
	"solar-estimate/core/rules"
	"solar-estimate/core/survey"
	"solar-estimate/internal/errors"
)

// IssueDateLayout is the cover date format, e.g. 2025/04/01
const IssueDateLayout = "2006/01/02"

// DefaultProjectPeriod is shown until a schedule is agreed
const DefaultProjectPeriod = "～"

// Engine turns survey records into estimates using one rule set.
// It holds no mutable state and may be shared.
type Engine struct {
	rules          *rules.RuleSet
	now            func() time.Time
	newID          func() string
	logger         *zap.Logger
	representative string
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the source of the issue date
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the source of estimate ids
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRepresentative sets the person named on the cover
func WithRepresentative(name string) Option {
	return func(e *Engine) { e.representative = name }
}

// New creates an engine for rs
func New(rs *rules.RuleSet, opts ...Option) (*Engine, error) {
	if rs == nil {
		return nil, errors.Configf("rule set is required")
	}

	e := &Engine{
		rules:  rs,
		now:    time.Now,
		newID:  RandomID,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, w := range rs.Warnings {
		e.logger.Warn("rule warning", zap.String("warning", w))
	}
	return e, nil
}

// Rules returns the rule set the engine prices with
func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// RandomID returns an estimate id in the form 22730522-4367674
func RandomID() string {
	return fmt.Sprintf("%08d-%07d", 10000000+rand.Intn(90000000), 1000000+rand.Intn(9000000))
}

// Generate prices s and assembles a complete estimate addressed to clientName.
func (e *Engine) Generate(s *survey.Survey, clientName string) (est *estimate.Estimate, err error) {
	if s == nil {
		return nil, errors.Input("survey record is required")
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pricing pass panicked", zap.Any("panic", r))
			est = nil
			err = errors.Pricing("pricing pass failed; check the rule document against the survey schema",
				fmt.Errorf("%v", r))
		}
	}()

	policy, err := pricing.PolicyFor(e.rules.DiscountMethod)
	if err != nil {
		return nil, err
	}

	sections := pricing.BuildAll(e.rules, s)
	for _, section := range sections {
		e.logger.Debug("section priced",
			zap.String("category", string(section.Category)),
			zap.Int("items", len(section.Items)),
			zap.Int64("total", section.Total))
	}

	est = &estimate.Estimate{
		Cover:   e.cover(s, clientName),
		Summary: pricing.Summarize(sections, policy, e.rules.TaxRate),
	}
	est.SyncCover()
	est.ReasoningList = explanation.List(est.Summary.Categories)

	e.logger.Info("estimate generated",
		zap.String("estimate_id", est.Cover.EstimateID),
		zap.Int64("subtotal", est.Summary.Subtotal),
		zap.Int64("total_with_tax", est.Summary.TotalWithTax))

	return est, nil
}

func (e *Engine) cover(s *survey.Survey, clientName string) estimate.Cover {
	return estimate.Cover{
		EstimateID:      e.newID(),
		IssueDate:       e.now().Format(IssueDateLayout),
		ClientName:      clientName,
		ProjectName:     ProjectTitle(s),
		ProjectLocation: s.Project.Address,
		ProjectPeriod:   DefaultProjectPeriod,
		Representative:  e.representative,
	}
}

// ProjectTitle is the cover title, e.g. "テスト工場　太陽光設置工事 見積（190.08kW）"
func ProjectTitle(s *survey.Survey) string {
	return fmt.Sprintf("%s　太陽光設置工事 見積（%skW）",
		s.Project.ProjectName, expression.FormatDecimal(expression.CapacityKW(s)))
}

// Recalculate recomputes every section total, the summary, the cover money
// fields and the reasoning list from the line items. Running it twice
// without edits in between changes nothing.
//
// The estimate keeps its own discount method and tax rate. Either one that
// is missing is taken from the engine's rules. A hand-entered total before
// tax survives recalculation until a line item changes.
func (e *Engine) Recalculate(est *estimate.Estimate) error {
	policy, rate, err := e.check(est)
	if err != nil {
		return err
	}

	for _, section := range est.Summary.Categories {
		section.CalculateTotals()
	}
	adjusted := est.Summary.DiscountAdjusted
	est.Summary = pricing.Summarize(est.Summary.Categories, policy, rate)
	est.Summary.DiscountAdjusted = adjusted
	est.SyncCover()
	est.ReasoningList = explanation.List(est.Summary.Categories)
	return nil
}

// AdjustTotalBeforeTax sets the total before tax to an agreed figure. The
// discount becomes the difference from the subtotal and tax is recomputed
// on the new figure. The figure must lie between zero and the subtotal.
func (e *Engine) AdjustTotalBeforeTax(est *estimate.Estimate, amount int64) error {
	if _, _, err := e.check(est); err != nil {
		return err
	}
	if amount < 0 {
		return errors.Input("total before tax must not be negative")
	}

	var subtotal int64
	for _, section := range est.Summary.Categories {
		for _, item := range section.Items {
			subtotal += item.Amount
		}
	}
	if amount > subtotal {
		return errors.Input(fmt.Sprintf("total before tax %d exceeds subtotal %d", amount, subtotal))
	}

	est.Summary.TotalBeforeTax = amount
	est.Summary.DiscountAdjusted = true
	e.logger.Debug("total before tax adjusted",
		zap.Int64("subtotal", subtotal),
		zap.Int64("total_before_tax", amount))
	return e.Recalculate(est)
}

// check resolves the discount policy and tax rate for est and rejects
// estimates with missing sections or items. It changes nothing.
func (e *Engine) check(est *estimate.Estimate) (pricing.DiscountPolicy, decimal.Decimal, error) {
	if est == nil {
		return nil, decimal.Zero, errors.Input("estimate is required")
	}

	method, rate := est.Summary.DiscountMethod, est.Summary.TaxRate
	if method == "" {
		method = e.rules.DiscountMethod
	}
	if rate.IsZero() {
		rate = e.rules.TaxRate
	}
	policy, err := pricing.PolicyFor(method)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if est.Summary.DiscountAdjusted {
		policy = pricing.Adjusted{Base: policy.Method(), TotalBeforeTax: est.Summary.TotalBeforeTax}
	}

	for i, section := range est.Summary.Categories {
		if section == nil {
			return nil, decimal.Zero, errors.Input(fmt.Sprintf("category %d is empty", i))
		}
		for j, item := range section.Items {
			if item == nil {
				return nil, decimal.Zero, errors.Input(fmt.Sprintf("category %d item %d is empty", i, j))
			}
		}
	}
	return policy, rate, nil
}
