package macro

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/jar398/bayeslite/sql"
	"github.com/jar398/bayeslite/sql/expression"
	"github.com/jar398/bayeslite/sql/plan"
)

// Hoist resolves a simulate request over arbitrary expressions into a
// SimulateModels whose columns are all atomic primitives.
//
// If every column is itself a single primitive, the result is a
// SimulateModels with the given columns, verbatim. Otherwise every primitive
// found in the columns, in depth-first, left-to-right order, becomes a
// column v0, v1, ... of a SimulateModels, and the result is a SELECT ALL of
// the original columns, with each primitive replaced by a reference to its
// synthetic column, from that SimulateModels. All primitives of one call are
// thus answered by the same batch of simulated draws.
//
// Every occurrence of a primitive gets its own synthetic column, even when
// it is structurally equal to an earlier one.
func Hoist(columns []plan.SimCol, population, generator string) (sql.Node, error) {
	return newHoister(false).hoist(columns, population, generator)
}

// HoistShared is like Hoist, but structurally equal primitives share a single
// synthetic column, and hence a single simulated value per draw.
func HoistShared(columns []plan.SimCol, population, generator string) (sql.Node, error) {
	return newHoister(true).hoist(columns, population, generator)
}

// hoister holds the state of a single hoisting call.
type hoister struct {
	dedup   bool
	columns []plan.SimCol
	// fingerprint of a primitive -> indexes of columns holding it
	seen map[uint64][]int
}

func newHoister(dedup bool) *hoister {
	h := &hoister{dedup: dedup}
	if dedup {
		h.seen = make(map[uint64][]int)
	}
	return h
}

func (h *hoister) hoist(columns []plan.SimCol, population, generator string) (sql.Node, error) {
	if len(columns) == 0 {
		return nil, ErrEmptySimulate.New(population)
	}

	if population == "" {
		return nil, ErrMissingPopulation.New("SIMULATE")
	}

	trivial := true
	for _, c := range columns {
		prims, err := Primitives(c.Expression)
		if err != nil {
			return nil, err
		}

		if len(prims) == 0 {
			return nil, ErrNoPrimitive.New(c.Name, c.Expression)
		}

		if len(prims) != 1 || prims[0] != c.Expression {
			trivial = false
		}
	}

	if trivial {
		simcols := make([]plan.SimCol, len(columns))
		copy(simcols, columns)
		return plan.NewSimulateModels(simcols, population, generator), nil
	}

	outputs := make([]plan.SelectColumn, len(columns))
	for i, c := range columns {
		e, err := h.rewrite(c.Expression)
		if err != nil {
			return nil, err
		}
		outputs[i] = plan.NewSelectColumn(e, c.Name)
	}

	inner := plan.NewSimulateModels(h.columns, population, generator)
	return plan.NewSelect(plan.All, outputs, []plan.TableRef{plan.NewTableRef(inner, "")}), nil
}

// rewrite replaces, top-down and left to right, every primitive of e by a
// reference to its synthetic column.
func (h *hoister) rewrite(e sql.Expression) (sql.Expression, error) {
	class, err := Classify(e)
	if err != nil {
		return nil, err
	}

	if class == Atomic {
		name, err := h.bind(e)
		if err != nil {
			return nil, err
		}
		return expression.NewColumn("", name), nil
	}

	children := e.Children()
	if len(children) == 0 {
		return e, nil
	}

	newChildren := make([]sql.Expression, len(children))
	for i, c := range children {
		nc, err := h.rewrite(c)
		if err != nil {
			return nil, err
		}
		newChildren[i] = nc
	}

	return e.WithChildren(newChildren...)
}

// bind returns the synthetic column name for a primitive, adding a new
// column for it unless deduplication finds an equal one.
func (h *hoister) bind(e sql.Expression) (string, error) {
	var key uint64
	if h.dedup {
		var err error
		key, err = hashstructure.Hash(e, nil)
		if err != nil {
			return "", err
		}

		for _, i := range h.seen[key] {
			if sql.Equal(h.columns[i].Expression, e) {
				return h.columns[i].Name, nil
			}
		}
	}

	name := fmt.Sprintf("v%d", len(h.columns))
	h.columns = append(h.columns, plan.NewSimCol(e, name))
	if h.dedup {
		h.seen[key] = append(h.seen[key], len(h.columns)-1)
	}
	return name, nil
}
