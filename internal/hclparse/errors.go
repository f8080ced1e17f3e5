package hclparse

import (
	"fmt"
	"reflect"
)

type PanicWhileParsingError struct {
	ConfigFile     string
	RecoveredValue any
}

func (err PanicWhileParsingError) Error() string {
	return fmt.Sprintf("Recovering panic while parsing '%s'. Got error of type '%v': %v", err.ConfigFile, reflect.TypeOf(err.RecoveredValue), err.RecoveredValue)
}
