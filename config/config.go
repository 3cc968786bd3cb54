/*
File    : golox/config/config.go
*/

// Package config loads the optional `.loxrc.json` that customizes REPL
// and CLI presentation. A missing file is not an error — Load returns
// Default(). A present-but-malformed file is rejected against an
// embedded JSON Schema before it is ever decoded into a Config, so a
// typo'd field produces a schema-path error instead of a
// silently-ignored zero value.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Config holds the presentation knobs the driver and REPL read.
type Config struct {
	Prompt            string `json:"prompt"`
	Banner            string `json:"banner"`
	Color             bool   `json:"color"`
	WatchDebounceMS   int    `json:"watchDebounceMs"`
}

// Default returns the out-of-the-box defaults: a plain "> " prompt, no
// banner, color on, and a 200ms watch-mode debounce.
func Default() Config {
	return Config{
		Prompt:          "> ",
		Banner:          "",
		Color:           true,
		WatchDebounceMS: 200,
	}
}

const schemaDoc = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"prompt": {"type": "string"},
		"banner": {"type": "string"},
		"color": {"type": "boolean"},
		"watchDebounceMs": {"type": "integer", "minimum": 0}
	}
}`

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	const url = "golox://loxrc.schema.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaDoc)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// Load looks for ".loxrc.json" in dir and returns Default() if it is
// absent. When present, its contents are validated against the embedded
// schema before being unmarshaled over a copy of Default() (so an
// omitted field keeps its default rather than zeroing out).
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ".loxrc.json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Config{}, fmt.Errorf("config: %s is not valid JSON: %w", path, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return Config{}, fmt.Errorf("config: compiling schema: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return Config{}, fmt.Errorf("config: %s failed validation: %w", path, err)
	}

	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}
