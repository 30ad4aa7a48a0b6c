package models

import "fitfam/internal/querybuilder"

func setIf[T any](v *querybuilder.Values, name string, value *T) {
	if value != nil {
		v.Set(name, *value)
	}
}

func setDateFilter(v *querybuilder.Values, name string, value *Date) {
	if value != nil && value.Valid {
		v.Set(name, value.SQLDate())
	}
}
