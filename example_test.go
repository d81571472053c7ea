package bayeslite_test

import (
	"context"
	"fmt"

	"github.com/jar398/bayeslite"
)

func Example() {
	e := bayeslite.NewDefault()

	result, err := e.CompileDocument(context.Background(), []byte(`
simulate_models:
  population: p
  generator: g
  columns:
    - name: mi
      expr:
        op:
          op: "*"
          args:
            - {lit: 2}
            - {mutinf: {columns0: [a], columns1: [b]}}
`))
	checkIfError(err)

	fmt.Print(result)

	// Output:
	// Select(ALL)
	//  ├─ Project
	//  │   └─ (2 * v0) AS mi
	//  └─ From
	//      └─ SimulateModels(p, g)
	//          └─ MUTUAL INFORMATION OF (a) WITH (b) AS v0
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}
