// Package domain holds the registry entities and their pure validation
// rules. Validation never touches the store; referential checks live in the
// registry service.
package domain

import (
	"fmt"

	dErrors "caretrack/pkg/domainerrors"
)

// HomeType is the closed set of care-home categories.
type HomeType string

const (
	HomeTypeNursing HomeType = "NURSING"
	HomeTypePrivate HomeType = "PRIVATE"
)

// Valid reports whether t is one of the allowed home types. Matching is
// case-sensitive.
func (t HomeType) Valid() bool {
	switch t {
	case HomeTypeNursing, HomeTypePrivate:
		return true
	}
	return false
}

// MaxEntityID is the store's native signed 32-bit integer ceiling. Entity
// identifiers are caller-assigned and must stay strictly below it.
const MaxEntityID int64 = 1 << 31

// Home is a care facility. Homes are created once and never updated.
type Home struct {
	HomeID int64    `json:"homeId"`
	Name   string   `json:"name"`
	Type   HomeType `json:"type"`
}

func (h Home) Validate() error {
	if err := ValidateEntityID("homeId", h.HomeID); err != nil {
		return err
	}
	if h.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty.")
	}
	if !h.Type.Valid() {
		return dErrors.New(dErrors.CodeValidation, `Home type can be either "NURSING" or "PRIVATE".`)
	}
	return nil
}

// ValidateEntityID enforces the shared identifier range on homeId, sensorId
// and seniorId.
func ValidateEntityID(field string, id int64) error {
	if id <= 0 || id >= MaxEntityID {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s must be a positive integer below %d.", field, MaxEntityID))
	}
	return nil
}
