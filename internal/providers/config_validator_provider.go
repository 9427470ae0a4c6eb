package providers

import (
	"errors"
	"studytime/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks every config section against its struct tags.
func (c *CnfValidator) Validate() error {
	sections := []interface{}{
		&c.conf.WebServer,
		&c.conf.Persistence,
		&c.conf.Logger,
		&c.conf.Storage,
		&c.conf.Auth,
	}
	for _, s := range sections {
		v := validate.Struct(s)
		if !v.Validate() {
			return errors.New(v.Errors.String())
		}
	}
	return nil
}
