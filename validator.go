package hypo

import (
	"errors"
	"fmt"
)

var errNoComponent = errors.New("no component found")

type (
	validator interface {
		validate(results []*queryResult) error

		fmt.Stringer
	}

	validatorUniqueMandatory struct{}

	validatorUniqueOptional struct{}
)

func (c validatorUniqueMandatory) validate(results []*queryResult) error {
	if len(results) == 0 {
		return fmt.Errorf("%w for %s", errNoComponent, c)
	}
	return validatorUniqueOptional{}.validate(results)
}

func (c validatorUniqueMandatory) String() string {
	return "<unique mandatory>"
}

func (c validatorUniqueOptional) validate(results []*queryResult) error {
	if len(results) > 1 {
		return fmt.Errorf("%w: %d components found for %s, expected one and only one", ErrAmbiguousBinding, len(results), c)
	}

	return nil
}

func (c validatorUniqueOptional) String() string {
	return "<unique optional>"
}
