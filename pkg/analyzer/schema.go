package analyzer

import (
	"bytes"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Response body schemas.
const (
	successSchemaSource = `{
  "type": "object",
  "required": ["analysis"],
  "properties": {
    "analysis": {"type": "string"}
  }
}`

	errorSchemaSource = `{
  "type": "object",
  "required": ["error"],
  "properties": {
    "error": {"type": "string", "minLength": 1}
  }
}`
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

// compiledSchema compiles source once. The sources are constants, so a compile error is a
// programming error and is returned for the caller to treat as "no match".
func compiledSchema(source string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[source]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, err
	}
	schemaCache[source] = s
	return s, nil
}

// matchesSchema reports whether data is a JSON document valid against source.
// Empty and non-JSON bodies never match.
func matchesSchema(source string, data []byte) bool {
	if len(bytes.TrimSpace(data)) == 0 {
		return false
	}
	schema, err := compiledSchema(source)
	if err != nil {
		return false
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return false
	}
	return result.Valid()
}
