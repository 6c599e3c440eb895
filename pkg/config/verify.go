package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var embeddedSchema string

var (
	compileOnce    sync.Once
	compiledSchema *validator.Schema
	compileErr     error
)

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(configData))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("validation failed: %s", flatten(verr))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func loadSchema() (*validator.Schema, error) {
	compileOnce.Do(func() {
		compiler := validator.NewCompiler()
		compiler.Draft = validator.Draft2020
		if err := compiler.AddResource("schema.json", strings.NewReader(embeddedSchema)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("schema.json")
	})
	return compiledSchema, compileErr
}

// flatten joins leaf validation errors as "location: message"
func flatten(verr *validator.ValidationError) string {
	if len(verr.Causes) == 0 {
		loc := verr.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + verr.Message
	}
	msgs := make([]string, 0, len(verr.Causes))
	for _, c := range verr.Causes {
		msgs = append(msgs, flatten(c))
	}
	return strings.Join(msgs, "; ")
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
