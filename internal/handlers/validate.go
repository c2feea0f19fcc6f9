package handlers

import (
	"errors"
	"strings"
)

var errNothingToLookUp = errors.New("nothing to look up")

func validateFieldDTO(d FieldDTO) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}
