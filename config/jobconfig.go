package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// jobConfigSchema describes an alignment job's Processing/Blocking
// descriptor document: the ref/target ingestion paths, the threshold, the
// weighted distance processings, and an optional blocking strategy.
const jobConfigSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["ref_path", "target_path", "threshold", "processings"],
	"properties": {
		"ref_path": {"type": "string", "minLength": 1},
		"target_path": {"type": "string", "minLength": 1},
		"threshold": {"type": "number", "minimum": 0},
		"blocking": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {
					"type": "string",
					"enum": ["key", "soundex", "ngram", "sorted_neighborhood", "kmeans", "kdtree", "minhash", "pipeline"]
				}
			}
		},
		"processings": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["metric", "ref_attr", "target_attr", "weight"],
				"properties": {
					"metric": {"type": "string", "minLength": 1},
					"ref_attr": {"type": "integer", "minimum": 0},
					"target_attr": {"type": "integer", "minimum": 0},
					"weight": {"type": "number"},
					"squash": {"type": "boolean"},
					"default_value": {"type": "number"}
				}
			}
		}
	}
}`

var (
	jobConfigSchemaOnce    sync.Once
	jobConfigSchemaReady   *jsonschema.Schema
	jobConfigSchemaLoadErr error
)

func compiledJobConfigSchema() (*jsonschema.Schema, error) {
	jobConfigSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		const resourceURL = "mem://job-config.schema.json"
		if err := compiler.AddResource(resourceURL, strings.NewReader(jobConfigSchema)); err != nil {
			jobConfigSchemaLoadErr = fmt.Errorf("config: adding job-config schema resource: %w", err)
			return
		}
		compiled, err := compiler.Compile(resourceURL)
		if err != nil {
			jobConfigSchemaLoadErr = fmt.Errorf("config: compiling job-config schema: %w", err)
			return
		}
		jobConfigSchemaReady = compiled
	})
	return jobConfigSchemaReady, jobConfigSchemaLoadErr
}

// ValidateJobConfig validates a parsed alignment job-config document (as
// produced by LoadLayeredConfig) against the fixed job-config schema, before
// a host program builds an align.Aligner from it.
func ValidateJobConfig(doc map[string]any) error {
	schema, err := compiledJobConfigSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config: job config failed validation: %w", err)
	}
	return nil
}

// LoadJobConfig loads an alignment job-config document through the layered
// defaults/user/runtime merge and validates the result, so a malformed
// descriptor is rejected before any ingestion or alignment work starts.
func LoadJobConfig(opts LayeredConfigOptions, runtimeOverrides ...map[string]any) (map[string]any, error) {
	merged, err := LoadLayeredConfig(opts, runtimeOverrides...)
	if err != nil {
		return nil, err
	}
	if err := ValidateJobConfig(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
