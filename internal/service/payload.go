package service

import (
	"gorm.io/datatypes"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/fieldval"
)

// textOrEmpty normalizes optional text; null or blank input clears the field.
func textOrEmpty(v any) string {
	if s := fieldval.NormalizeText(v); s != nil {
		return *s
	}
	return ""
}

func jsonMapValue(v any, field string) (datatypes.JSONMap, error) {
	switch m := v.(type) {
	case nil:
		return datatypes.JSONMap{}, nil
	case map[string]any:
		return datatypes.JSONMap(m), nil
	case datatypes.JSONMap:
		return m, nil
	default:
		return nil, apperr.Invalid(field, "must be an object.")
	}
}

func jsonSliceValue(v any) datatypes.JSONSlice[string] {
	return datatypes.NewJSONSlice(fieldval.StringList(v))
}
