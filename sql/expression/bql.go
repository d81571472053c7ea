package expression

import (
	"fmt"
	"strings"

	"github.com/jar398/bayeslite/sql"
)

// Constraint pairs a column with a value, as in the targets of a probability
// density or the conditions of an estimator.
type Constraint struct {
	Column string
	Value  sql.Expression
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s = %s", c.Column, c.Value)
}

func constraintsString(r *refs, cs []Constraint) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Column + " = " + r.ref(c.Value)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func columnsString(cols []string) string {
	return "(" + strings.Join(cols, ", ") + ")"
}

func constraintValues(cs []Constraint) []sql.Expression {
	var values []sql.Expression
	for _, c := range cs {
		values = append(values, c.Value)
	}
	return values
}

// withConstraintValues returns a copy of cs with the values replaced by the
// first len(cs) expressions, and the remaining expressions.
func withConstraintValues(cs []Constraint, exprs []sql.Expression) ([]Constraint, []sql.Expression) {
	if len(cs) == 0 {
		return cs, exprs
	}
	out := make([]Constraint, len(cs))
	for i, c := range cs {
		out[i] = Constraint{Column: c.Column, Value: exprs[i]}
	}
	return out, exprs[len(cs):]
}

func optional(exprs ...sql.Expression) []sql.Expression {
	var out []sql.Expression
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// takeOptional returns exprs[0] if present is non-nil, and the remaining
// expressions.
func takeOptional(present sql.Expression, exprs []sql.Expression) (sql.Expression, []sql.Expression) {
	if present == nil {
		return nil, exprs
	}
	return exprs[0], exprs[1:]
}

// MutualInformation estimates the mutual information between two disjoint
// sets of columns, optionally given some conditions.
type MutualInformation struct {
	Columns0    []string
	Columns1    []string
	Constraints []Constraint
	NSamples    sql.Expression
}

// NewMutualInformation creates a new MutualInformation estimator. nsamples
// may be nil.
func NewMutualInformation(columns0, columns1 []string, constraints []Constraint, nsamples sql.Expression) *MutualInformation {
	return &MutualInformation{columns0, columns1, constraints, nsamples}
}

func (m *MutualInformation) String() string {
	var r refs
	s := fmt.Sprintf("MUTUAL INFORMATION OF %s WITH %s", columnsString(m.Columns0), columnsString(m.Columns1))
	if len(m.Constraints) > 0 {
		s += " GIVEN " + constraintsString(&r, m.Constraints)
	}
	if m.NSamples != nil {
		s += fmt.Sprintf(" USING %s SAMPLES", r.ref(m.NSamples))
	}
	return r.tree(s)
}

// Children implements the Expression interface.
func (m *MutualInformation) Children() []sql.Expression {
	return append(constraintValues(m.Constraints), optional(m.NSamples)...)
}

// WithChildren implements the Expression interface.
func (m *MutualInformation) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if expected := len(m.Children()); len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(m, len(children), expected)
	}
	nm := *m
	nm.Constraints, children = withConstraintValues(m.Constraints, children)
	nm.NSamples, _ = takeOptional(m.NSamples, children)
	return &nm, nil
}

// ProbabilityDensity estimates the density of the targets taking the given
// values, optionally given some conditions.
type ProbabilityDensity struct {
	Targets     []Constraint
	Constraints []Constraint
}

// NewProbabilityDensity creates a new ProbabilityDensity estimator.
func NewProbabilityDensity(targets, constraints []Constraint) *ProbabilityDensity {
	return &ProbabilityDensity{targets, constraints}
}

func (p *ProbabilityDensity) String() string {
	var r refs
	s := "PROBABILITY DENSITY OF " + constraintsString(&r, p.Targets)
	if len(p.Constraints) > 0 {
		s += " GIVEN " + constraintsString(&r, p.Constraints)
	}
	return r.tree(s)
}

// Children implements the Expression interface.
func (p *ProbabilityDensity) Children() []sql.Expression {
	return append(constraintValues(p.Targets), constraintValues(p.Constraints)...)
}

// WithChildren implements the Expression interface.
func (p *ProbabilityDensity) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if expected := len(p.Targets) + len(p.Constraints); len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), expected)
	}
	np := *p
	np.Targets, children = withConstraintValues(p.Targets, children)
	np.Constraints, _ = withConstraintValues(p.Constraints, children)
	return &np, nil
}

// PredictiveProbability estimates the predictive probability of the target
// columns of a row, given the values of the constraint columns of that row.
type PredictiveProbability struct {
	Targets     []string
	Constraints []string
}

// NewPredictiveProbability creates a new PredictiveProbability estimator.
func NewPredictiveProbability(targets, constraints []string) *PredictiveProbability {
	return &PredictiveProbability{targets, constraints}
}

func (p *PredictiveProbability) String() string {
	s := "PREDICTIVE PROBABILITY OF " + columnsString(p.Targets)
	if len(p.Constraints) > 0 {
		s += " GIVEN " + columnsString(p.Constraints)
	}
	return s
}

// Children implements the Expression interface.
func (*PredictiveProbability) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (p *PredictiveProbability) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}

// Similarity estimates the similarity of the rows selected by Of and To in
// the context of some columns. Of and To are row conditions and may be nil.
type Similarity struct {
	Of      sql.Expression
	To      sql.Expression
	Context []string
}

// NewSimilarity creates a new Similarity estimator.
func NewSimilarity(of, to sql.Expression, context []string) *Similarity {
	return &Similarity{of, to, context}
}

func (s *Similarity) String() string {
	var r refs
	str := "SIMILARITY"
	if s.Of != nil {
		str += fmt.Sprintf(" OF (%s)", r.ref(s.Of))
	}
	if s.To != nil {
		str += fmt.Sprintf(" TO (%s)", r.ref(s.To))
	}
	if len(s.Context) > 0 {
		str += " IN THE CONTEXT OF " + columnsString(s.Context)
	}
	return r.tree(str)
}

// Children implements the Expression interface.
func (s *Similarity) Children() []sql.Expression {
	return optional(s.Of, s.To)
}

// WithChildren implements the Expression interface.
func (s *Similarity) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if expected := len(s.Children()); len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), expected)
	}
	ns := *s
	ns.Of, children = takeOptional(s.Of, children)
	ns.To, _ = takeOptional(s.To, children)
	return &ns, nil
}

// PredictiveRelevance estimates the predictive relevance of the rows selected
// by Of to the existing rows selected by To and to hypothetical rows, in the
// context of some columns.
type PredictiveRelevance struct {
	Of            sql.Expression
	To            sql.Expression
	Hypotheticals [][]Constraint
	Context       []string
}

// NewPredictiveRelevance creates a new PredictiveRelevance estimator.
func NewPredictiveRelevance(of, to sql.Expression, hypotheticals [][]Constraint, context []string) *PredictiveRelevance {
	return &PredictiveRelevance{of, to, hypotheticals, context}
}

func (p *PredictiveRelevance) String() string {
	var r refs
	str := "PREDICTIVE RELEVANCE"
	if p.Of != nil {
		str += fmt.Sprintf(" OF (%s)", r.ref(p.Of))
	}

	if p.To != nil {
		str += fmt.Sprintf(" TO EXISTING ROWS (%s)", r.ref(p.To))
	}

	if len(p.Hypotheticals) > 0 {
		rows := make([]string, len(p.Hypotheticals))
		for i, row := range p.Hypotheticals {
			rows[i] = constraintsString(&r, row)
		}
		if p.To != nil {
			str += " AND"
		} else {
			str += " TO"
		}
		str += " HYPOTHETICAL ROWS WITH VALUES (" + strings.Join(rows, ", ") + ")"
	}

	if len(p.Context) > 0 {
		str += " IN THE CONTEXT OF " + columnsString(p.Context)
	}
	return r.tree(str)
}

// Children implements the Expression interface.
func (p *PredictiveRelevance) Children() []sql.Expression {
	children := optional(p.Of, p.To)
	for _, row := range p.Hypotheticals {
		children = append(children, constraintValues(row)...)
	}
	return children
}

// WithChildren implements the Expression interface.
func (p *PredictiveRelevance) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if expected := len(p.Children()); len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), expected)
	}
	np := *p
	np.Of, children = takeOptional(p.Of, children)
	np.To, children = takeOptional(p.To, children)
	if len(p.Hypotheticals) > 0 {
		np.Hypotheticals = make([][]Constraint, len(p.Hypotheticals))
		for i, row := range p.Hypotheticals {
			np.Hypotheticals[i], children = withConstraintValues(row, children)
		}
	}
	return &np, nil
}

// DependenceProbability estimates the probability that two columns are
// dependent.
type DependenceProbability struct {
	Column0 string
	Column1 string
}

// NewDependenceProbability creates a new DependenceProbability estimator.
func NewDependenceProbability(column0, column1 string) *DependenceProbability {
	return &DependenceProbability{column0, column1}
}

func (d *DependenceProbability) String() string {
	return fmt.Sprintf("DEPENDENCE PROBABILITY OF %s WITH %s", d.Column0, d.Column1)
}

// Children implements the Expression interface.
func (*DependenceProbability) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (d *DependenceProbability) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 0)
	}
	return d, nil
}

// Correlation estimates the correlation between two columns.
type Correlation struct {
	Column0 string
	Column1 string
}

// NewCorrelation creates a new Correlation estimator.
func NewCorrelation(column0, column1 string) *Correlation {
	return &Correlation{column0, column1}
}

func (c *Correlation) String() string {
	return fmt.Sprintf("CORRELATION OF %s WITH %s", c.Column0, c.Column1)
}

// Children implements the Expression interface.
func (*Correlation) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (c *Correlation) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

// CorrelationPValue estimates the p-value of the correlation between two
// columns.
type CorrelationPValue struct {
	Column0 string
	Column1 string
}

// NewCorrelationPValue creates a new CorrelationPValue estimator.
func NewCorrelationPValue(column0, column1 string) *CorrelationPValue {
	return &CorrelationPValue{column0, column1}
}

func (c *CorrelationPValue) String() string {
	return fmt.Sprintf("CORRELATION PVALUE OF %s WITH %s", c.Column0, c.Column1)
}

// Children implements the Expression interface.
func (*CorrelationPValue) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (c *CorrelationPValue) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

// Predict predicts the value of a column of the current row.
type Predict struct {
	Column   string
	NSamples sql.Expression
}

// NewPredict creates a new Predict estimator. nsamples may be nil.
func NewPredict(column string, nsamples sql.Expression) *Predict {
	return &Predict{column, nsamples}
}

func (p *Predict) String() string {
	if p.NSamples != nil {
		var r refs
		return r.tree(fmt.Sprintf("PREDICT %s USING %s SAMPLES", p.Column, r.ref(p.NSamples)))
	}
	return "PREDICT " + p.Column
}

// Children implements the Expression interface.
func (p *Predict) Children() []sql.Expression {
	return optional(p.NSamples)
}

// WithChildren implements the Expression interface.
func (p *Predict) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if expected := len(p.Children()); len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), expected)
	}
	np := *p
	np.NSamples, _ = takeOptional(p.NSamples, children)
	return &np, nil
}

// ProbabilityEstimate asks for the expected value of an expression under the
// joint posterior of a generator of a population. It is a macro: it has to
// be lowered into a query over simulated values before execution.
type ProbabilityEstimate struct {
	Expression sql.Expression
	Population string
	// Generator may be empty, meaning the default generator of the population.
	Generator string
	// Aggregate may be empty, meaning AVG.
	Aggregate string
}

// NewProbabilityEstimate creates a new ProbabilityEstimate macro.
func NewProbabilityEstimate(e sql.Expression, population, generator string) *ProbabilityEstimate {
	return &ProbabilityEstimate{Expression: e, Population: population, Generator: generator}
}

func (p *ProbabilityEstimate) String() string {
	var r refs
	s := fmt.Sprintf("PROBABILITY ESTIMATE OF (%s) FROM %s", r.ref(p.Expression), p.Population)
	if p.Generator != "" {
		s += " MODELED BY " + p.Generator
	}
	if p.Aggregate != "" {
		s = p.Aggregate + " " + s
	}
	return r.tree(s)
}

// Children implements the Expression interface.
func (p *ProbabilityEstimate) Children() []sql.Expression {
	return []sql.Expression{p.Expression}
}

// WithChildren implements the Expression interface.
func (p *ProbabilityEstimate) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 1)
	}
	np := *p
	np.Expression = children[0]
	return &np, nil
}
