package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetURLFields checks which query parameters are set and which query
// parameters are set and can be used in a gorm query.
//
// queryFields contains the struct field names for all parameters that
// can be passed to gorm's Where as field selection, setFields contains
// the field names of all parameters that were set in the query string,
// including the ones that cannot be handled by gorm directly.
//
// Fields are skipped for queryFields if they have the tag
// filterField:"false" set, since those need special handling, for
// example substring matching.
func GetURLFields(url *url.URL, filter any) ([]any, []string) {
	queryFields := []any{}
	setFields := []string{}

	val := reflect.Indirect(reflect.ValueOf(filter))
	for i := 0; i < val.Type().NumField(); i++ {
		field := val.Type().Field(i)

		param, ok := field.Tag.Lookup("form")
		if !ok {
			continue
		}

		if url.Query().Has(param) {
			setFields = append(setFields, field.Name)

			if field.Tag.Get("filterField") != "false" {
				queryFields = append(queryFields, field.Name)
			}
		}
	}

	return queryFields, setFields
}

// GetBodyFields returns a slice of all field names that are set in the
// request body, translated to the names of the struct fields they bind
// to. This is needed to be able to update fields that are set to their
// zero value in the request.
//
// The request body is restored so that it can be bound again
// afterwards.
func GetBodyFields(c *gin.Context, model any) ([]any, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return []any{}, ErrInvalidBody
	}

	// The request body needs to be available for binding later on
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return []any{}, ErrInvalidBody
	}

	fields := []any{}
	val := reflect.Indirect(reflect.ValueOf(model))
	for i := 0; i < val.Type().NumField(); i++ {
		field := val.Type().Field(i)

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		if _, ok := raw[name]; ok {
			fields = append(fields, field.Name)
		}
	}

	return fields, nil
}
