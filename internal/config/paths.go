package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Well-known output file names
const (
	Figure1BoxplotRiderClass = "figure1_boxplot_rider_class.png"
	Figure2BoxplotStageRider = "figure2_boxplot_stage_rider.png"
	Figure3Interaction       = "figure3_interaction.png"
	Figure4HistogramPoints   = "figure4_histogram_points.png"

	Table1DescriptiveRiderClass = "table1_descriptive_rider_class.csv"
	Table2DescriptiveStageClass = "table2_descriptive_stage_class.csv"
	Table3OneWayANOVA           = "table3_one_way_anova.csv"
	Table4KruskalWallis         = "table4_kruskal_wallis.csv"
	Table5TwoWayANOVA           = "table5_two_way_anova.csv"
	Table6PosthocTukey          = "table6_posthoc_tukey.csv"
	Table7DescriptiveRiderStage = "table7_descriptive_rider_stage.csv"
	Table8ANOVAKWSummary        = "table8_anova_kw_summary.csv"
)

// Paths contains every file the pipelines read or write.
// This is the single source of truth for file locations.
type Paths struct {
	InputFile string
	OutputDir string
	LogFile   string

	// Figures
	RiderBoxplot    string
	StageBoxplot    string
	Interaction     string
	PointsHistogram string

	// Tables
	DescriptiveRiderClass string
	DescriptiveStageClass string
	OneWayANOVA           string
	KruskalWallis         string
	TwoWayANOVA           string
	PosthocTukey          string
	DescriptiveRiderStage string
	ANOVAKWSummary        string

	// Workbook is empty when the XLSX copy is disabled.
	Workbook string
}

// NewPaths resolves the well-known files against the configured directories
func NewPaths(cfg *Config) *Paths {
	out := cfg.Output.Dir
	if out == "" {
		out = "."
	}

	p := &Paths{
		InputFile: cfg.Input.File,
		OutputDir: out,
		LogFile:   cfg.Logging.FilePath,

		RiderBoxplot:    filepath.Join(out, Figure1BoxplotRiderClass),
		StageBoxplot:    filepath.Join(out, Figure2BoxplotStageRider),
		Interaction:     filepath.Join(out, Figure3Interaction),
		PointsHistogram: filepath.Join(out, Figure4HistogramPoints),

		DescriptiveRiderClass: filepath.Join(out, Table1DescriptiveRiderClass),
		DescriptiveStageClass: filepath.Join(out, Table2DescriptiveStageClass),
		OneWayANOVA:           filepath.Join(out, Table3OneWayANOVA),
		KruskalWallis:         filepath.Join(out, Table4KruskalWallis),
		TwoWayANOVA:           filepath.Join(out, Table5TwoWayANOVA),
		PosthocTukey:          filepath.Join(out, Table6PosthocTukey),
		DescriptiveRiderStage: filepath.Join(out, Table7DescriptiveRiderStage),
		ANOVAKWSummary:        filepath.Join(out, Table8ANOVAKWSummary),
	}

	if cfg.Output.Workbook != "" {
		p.Workbook = cfg.Output.Workbook
		if !filepath.IsAbs(p.Workbook) {
			p.Workbook = filepath.Join(out, p.Workbook)
		}
	}

	return p
}

// Resolve joins name onto the output directory
func (p *Paths) Resolve(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// EnsureDirectories creates the output directory if it does not exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.OutputDir, err)
	}
	return nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution completed",
		slog.String("input_file", p.InputFile),
		slog.String("output_dir", p.OutputDir),
		slog.String("workbook", p.Workbook),
		slog.String("log_file", p.LogFile),
	)
}
