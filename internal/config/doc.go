// Package config provides configuration management for cyclingstats.
// It loads settings from several sources, validates them, and resolves
// the well-known input and output file locations.
//
// # Configuration Sources
//
// Sources are applied in this order, later ones winning:
//
//  1. Default values
//  2. A YAML file (--config, CYCLING_CONFIG, ./cyclingstats.yaml or
//     ./configs/cyclingstats.yaml)
//  3. Environment variables
//  4. Command line flags
//
// # Environment Variables
//
// All environment variables follow the pattern CYCLING_<SECTION>_<FIELD>:
//
//	CYCLING_INPUT_FILE=cycling.txt
//	CYCLING_OUTPUT_DIR=out
//	CYCLING_ANALYSIS_ALPHA=0.05
//	CYCLING_ANALYSIS_SUM_OF_SQUARES=2
//	CYCLING_FIGURES_DPI=300
//	CYCLING_TELEMETRY_METRICS_FILE=cyclingstats.prom
//
// # Validation
//
// Fields carry go-playground/validator tags. A failed check returns a
// CONFIG error whose context lists the offending fields by YAML name.
//
// # Paths
//
// NewPaths resolves every figure, table and workbook name against the
// output directory so the exporters never build paths themselves.
package config
