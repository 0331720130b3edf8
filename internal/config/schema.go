package config

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error

	// cue values are not safe for concurrent use
	schemaMu sync.Mutex
)

func compiledSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("config: compile schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Config"))
		if !schemaDef.Exists() {
			schemaErr = fmt.Errorf("config: schema has no #Config definition")
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

// Validate checks c against the embedded CUE schema and then the rules the
// schema cannot express.
func (c *Config) Validate() error {
	if !finite(c.Population.Susceptible, c.Population.Infected, c.Population.Recovered,
		c.Params.Beta, c.Params.Gamma, c.Dt) {
		return fmt.Errorf("config: non-finite value in population, params or dt")
	}

	ctx, schema, err := compiledSchema()
	if err != nil {
		return err
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := ctx.Encode(c)
	if err := v.Err(); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}

	if c.TotalPopulation() <= 0 {
		return fmt.Errorf("config: invalid: total population must be positive")
	}
	return nil
}
