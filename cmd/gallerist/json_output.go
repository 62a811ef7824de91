package main

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout. Scripts read
// list-shaped output with `jq '.[]'` or `.urls[]`, so a nil slice at the top
// level or in a struct field without omitempty is written as [] rather than
// null.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(emptyListsFor(v))
}

func emptyListsFor(v any) any {
	if v == nil {
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
		}
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		for i := 0; i < rv.NumField(); i++ {
			sf := rv.Type().Field(i)
			fv := out.Field(i)
			if !sf.IsExported() || fv.Kind() != reflect.Slice || !fv.IsNil() {
				continue
			}
			if strings.Contains(sf.Tag.Get("json"), ",omitempty") {
				continue
			}
			fv.Set(reflect.MakeSlice(fv.Type(), 0, 0))
		}
		return out.Interface()
	}
	return v
}
