package providers

import (
	"errors"

	"github.com/gookit/validate"

	"leadtrack/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct tag rules, then the cross-field rules the tags
// cannot express (driver-dependent storage paths).
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch cv.conf.Storage.Driver {
	case "sqlite":
		if cv.conf.Storage.SqlitePath == "" {
			return errors.New("storage.sqlitePath is required for the sqlite driver")
		}
	case "memory":
		if cv.conf.Storage.SnapshotPath == "" {
			return errors.New("storage.snapshotPath is required for the memory driver")
		}
		if cv.conf.Storage.SaveInterval <= 0 {
			return errors.New("storage.saveInterval must be positive for the memory driver")
		}
	}

	return nil
}
