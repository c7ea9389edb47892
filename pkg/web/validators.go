package web

import (
	"fmt"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// Gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func Gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// Gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func Gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// OptionalQueryInt32 reads an int32 query parameter. An absent parameter yields def.
func OptionalQueryInt32(r *http.Request, key string, def int32, pValidator ParamValidator) (int32, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		return 0, fmt.Errorf("invalid %s number: %s", key, value)
	}
	return int32(intValue), nil
}
