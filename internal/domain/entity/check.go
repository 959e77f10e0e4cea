package entity

import "github.com/kailas-cloud/entdoc/internal/domain/validation"

// Check runs the synchronous rules of every param and collects one failure per field.
func Check(e *Entity) validation.Errors {
	errs := make(validation.Errors)
	for _, p := range e.schema.Params() {
		if fe := p.Check(e.values[p.Name()]); fe != nil {
			errs.Add(p.Name(), *fe)
		}
	}
	return errs
}
