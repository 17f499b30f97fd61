package operations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xopraneet789/cycling-performance-analysis/internal/analysis"
	"github.com/xopraneet789/cycling-performance-analysis/internal/config"
	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	"github.com/xopraneet789/cycling-performance-analysis/internal/exporter"
	"github.com/xopraneet789/cycling-performance-analysis/internal/figures"
	"github.com/xopraneet789/cycling-performance-analysis/internal/infrastructure"
	"github.com/xopraneet789/cycling-performance-analysis/internal/validation"
)

// Pipeline names
const (
	PipelineStatistics    = "statistics"
	PipelineVisualization = "visualization"
)

// Step IDs
const (
	StepIDLoad            = "load"
	StepIDDescribe        = "describe"
	StepIDOneWayANOVA     = "one_way_anova"
	StepIDKruskalWallis   = "kruskal_wallis"
	StepIDTwoWayANOVA     = "two_way_anova"
	StepIDTukeyHSD        = "tukey_hsd"
	StepIDSummary         = "summary"
	StepIDExportTables    = "export_tables"
	StepIDRiderBoxplot    = "figure_rider_boxplot"
	StepIDStageBoxplot    = "figure_stage_boxplot"
	StepIDInteraction     = "figure_interaction"
	StepIDPointsHistogram = "figure_histogram"
)

// Context keys shared between steps
const (
	ContextKeyTable   = "table"
	ContextKeyResults = "results"
)

// Dependencies are the collaborators the steps need
type Dependencies struct {
	Config    *config.Config
	Paths     *config.Paths
	Loader    *dataset.Loader
	Validator *validation.FileValidator
	Writer    *exporter.CSVWriter
	Renderer  *figures.Renderer
	Metrics   *infrastructure.RunMetrics
	Logger    *slog.Logger
}

// NewDependencies wires the default collaborators for cfg
func NewDependencies(cfg *config.Config, metrics *infrastructure.RunMetrics, logger *slog.Logger) *Dependencies {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	paths := config.NewPaths(cfg)
	return &Dependencies{
		Config:    cfg,
		Paths:     paths,
		Loader:    dataset.NewLoader(logger),
		Validator: validation.NewFileValidator(logger),
		Writer:    exporter.NewCSVWriter(paths),
		Renderer:  figures.NewRenderer(figures.Options{DPI: cfg.Figures.DPI, Bins: cfg.Figures.Bins}),
		Metrics:   metrics,
		Logger:    logger,
	}
}

// StatisticsRegistry registers the statistics pipeline in execution order
func StatisticsRegistry(deps *Dependencies) (*Registry, error) {
	return newRegistry(
		NewLoadStage(deps),
		NewDescribeStage(),
		NewOneWayStage(),
		NewKruskalStage(),
		NewTwoWayStage(analysis.SumOfSquaresType(deps.Config.Analysis.SumOfSquares)),
		NewTukeyStage(deps.Config.Analysis.Alpha),
		NewSummaryStage(),
		NewExportTablesStage(deps),
	)
}

// VisualizationRegistry registers the visualization pipeline in execution order
func VisualizationRegistry(deps *Dependencies) (*Registry, error) {
	return newRegistry(
		NewLoadStage(deps),
		NewFigureStage(deps, StepIDRiderBoxplot, "Rider class box plot", deps.Paths.RiderBoxplot,
			func(r *figures.Renderer, t *dataset.Table, path string) error { return r.RiderBoxplot(t.Rows(), path) }),
		NewFigureStage(deps, StepIDStageBoxplot, "Stage class box plot", deps.Paths.StageBoxplot,
			func(r *figures.Renderer, t *dataset.Table, path string) error { return r.StageBoxplot(t.Rows(), path) }),
		NewFigureStage(deps, StepIDInteraction, "Interaction plot", deps.Paths.Interaction,
			func(r *figures.Renderer, t *dataset.Table, path string) error { return r.Interaction(t.Rows(), path) }),
		NewFigureStage(deps, StepIDPointsHistogram, "Points histogram", deps.Paths.PointsHistogram,
			func(r *figures.Renderer, t *dataset.Table, path string) error { return r.Histogram(t.Points(), path) }),
	)
}

func newRegistry(steps ...Step) (*Registry, error) {
	reg := NewRegistry()
	for _, s := range steps {
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// tableFrom returns the table left by the load Step
func tableFrom(state *OperationState, stepID string) (*dataset.Table, error) {
	v, ok := state.GetContext(ContextKeyTable)
	if !ok {
		return nil, NewValidationError(stepID, "no table loaded")
	}
	t, ok := v.(*dataset.Table)
	if !ok || t == nil {
		return nil, NewValidationError(stepID, "no table loaded")
	}
	return t, nil
}

// resultsFrom returns the shared analysis results, creating them on first use
func resultsFrom(state *OperationState) *exporter.Results {
	if v, ok := state.GetContext(ContextKeyResults); ok {
		if r, ok := v.(*exporter.Results); ok {
			return r
		}
	}
	r := &exporter.Results{}
	state.SetContext(ContextKeyResults, r)
	return r
}

// Results returns the analysis results of a finished statistics run
func Results(state *OperationState) (*exporter.Results, bool) {
	v, ok := state.GetContext(ContextKeyResults)
	if !ok {
		return nil, false
	}
	r, ok := v.(*exporter.Results)
	return r, ok
}

// LoadStage validates and reads the input file
type LoadStage struct {
	BaseStage
	deps *Dependencies
}

// NewLoadStage creates the load Step
func NewLoadStage(deps *Dependencies) *LoadStage {
	return &LoadStage{BaseStage: NewBaseStage(StepIDLoad, "Load dataset"), deps: deps}
}

// Execute reads the input into the operation context
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	path := s.deps.Paths.InputFile
	if err := s.deps.Validator.ValidateInputFile(path); err != nil {
		return err
	}

	table, err := s.deps.Loader.Load(ctx, path)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyTable, table)
	infrastructure.RecordRowsLoaded(ctx, s.deps.Metrics, table.Len())
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("rows", table.Len())
		st.SetMetadata("delimiter", string(table.Delimiter()))
	}
	return nil
}

// DescribeStage computes tables 1, 2 and 7
type DescribeStage struct {
	BaseStage
}

// NewDescribeStage creates the descriptive statistics Step
func NewDescribeStage() *DescribeStage {
	return &DescribeStage{BaseStage: NewBaseStage(StepIDDescribe, "Descriptive statistics")}
}

// Execute groups points by rider class, stage class and both
func (s *DescribeStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	rows := table.Rows()
	res := resultsFrom(state)

	if res.ByRider, err = analysis.Describe(rows, dataset.FactorRiderClass); err != nil {
		return fmt.Errorf("%s: %w", config.Table1DescriptiveRiderClass, err)
	}
	if res.ByStage, err = analysis.Describe(rows, dataset.FactorStageClass); err != nil {
		return fmt.Errorf("%s: %w", config.Table2DescriptiveStageClass, err)
	}
	if res.ByRiderStage, err = analysis.Describe(rows, dataset.FactorRiderClass, dataset.FactorStageClass); err != nil {
		return fmt.Errorf("%s: %w", config.Table7DescriptiveRiderStage, err)
	}
	return nil
}

// OneWayStage runs the one-way ANOVA of points on rider class
type OneWayStage struct {
	BaseStage
}

// NewOneWayStage creates the one-way ANOVA Step
func NewOneWayStage() *OneWayStage {
	return &OneWayStage{BaseStage: NewBaseStage(StepIDOneWayANOVA, "One-way ANOVA")}
}

// Execute runs the test on the rider class groups
func (s *OneWayStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	res := resultsFrom(state)
	if res.OneWay, err = analysis.OneWayANOVA(analysis.GroupBy(table.Rows(), dataset.FactorRiderClass)); err != nil {
		return fmt.Errorf("%s: %w", config.Table3OneWayANOVA, err)
	}
	return nil
}

// KruskalStage runs the Kruskal-Wallis test on rider class
type KruskalStage struct {
	BaseStage
}

// NewKruskalStage creates the Kruskal-Wallis Step
func NewKruskalStage() *KruskalStage {
	return &KruskalStage{BaseStage: NewBaseStage(StepIDKruskalWallis, "Kruskal-Wallis test")}
}

// Execute runs the test on the rider class groups
func (s *KruskalStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	res := resultsFrom(state)
	if res.Kruskal, err = analysis.KruskalWallis(analysis.GroupBy(table.Rows(), dataset.FactorRiderClass)); err != nil {
		return fmt.Errorf("%s: %w", config.Table4KruskalWallis, err)
	}
	return nil
}

// TwoWayStage fits points on rider class, stage class and their interaction
type TwoWayStage struct {
	BaseStage
	ssType analysis.SumOfSquaresType
}

// NewTwoWayStage creates the two-way ANOVA Step
func NewTwoWayStage(ssType analysis.SumOfSquaresType) *TwoWayStage {
	return &TwoWayStage{BaseStage: NewBaseStage(StepIDTwoWayANOVA, "Two-way ANOVA"), ssType: ssType}
}

// Execute fits the model
func (s *TwoWayStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	res := resultsFrom(state)
	res.TwoWay, err = analysis.TwoWayANOVA(table.Rows(), dataset.FactorRiderClass, dataset.FactorStageClass, s.ssType)
	if err != nil {
		return fmt.Errorf("%s: %w", config.Table5TwoWayANOVA, err)
	}
	return nil
}

// TukeyStage compares every pair of rider classes
type TukeyStage struct {
	BaseStage
	alpha float64
}

// NewTukeyStage creates the Tukey HSD Step
func NewTukeyStage(alpha float64) *TukeyStage {
	return &TukeyStage{BaseStage: NewBaseStage(StepIDTukeyHSD, "Tukey HSD"), alpha: alpha}
}

// Execute runs the pairwise comparisons
func (s *TukeyStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	res := resultsFrom(state)
	if res.Tukey, err = analysis.TukeyHSD(analysis.GroupBy(table.Rows(), dataset.FactorRiderClass), s.alpha); err != nil {
		return fmt.Errorf("%s: %w", config.Table6PosthocTukey, err)
	}
	return nil
}

// SummaryStage assembles the ANOVA and Kruskal-Wallis comparison
type SummaryStage struct {
	BaseStage
}

// NewSummaryStage creates the summary Step
func NewSummaryStage() *SummaryStage {
	return &SummaryStage{BaseStage: NewBaseStage(StepIDSummary, "Test summary")}
}

// Execute lays out the two test results side by side
func (s *SummaryStage) Execute(ctx context.Context, state *OperationState) error {
	res := resultsFrom(state)
	if res.OneWay.K == 0 || res.Kruskal.K == 0 {
		return NewValidationError(s.ID(), "one-way ANOVA and Kruskal-Wallis results are required")
	}
	res.Summary = analysis.Summarize(res.OneWay, res.Kruskal)
	return nil
}

// ExportTablesStage writes the eight tables and the optional workbook
type ExportTablesStage struct {
	BaseStage
	deps *Dependencies
}

// NewExportTablesStage creates the export Step
func NewExportTablesStage(deps *Dependencies) *ExportTablesStage {
	return &ExportTablesStage{BaseStage: NewBaseStage(StepIDExportTables, "Export tables"), deps: deps}
}

// Execute writes every table as CSV
func (s *ExportTablesStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.deps.Validator.ValidateOutputDirectory(s.deps.Paths.OutputDir); err != nil {
		return err
	}

	tables := resultsFrom(state).Tables()
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := s.deps.Writer.WriteTable(t)
		if err != nil {
			return fmt.Errorf("%s: %w", t.File, err)
		}
		infrastructure.RecordFileWritten(ctx, s.deps.Metrics, "table")
		s.deps.Logger.DebugContext(ctx, "Table written", slog.String("path", path))
	}

	if wb := s.deps.Paths.Workbook; wb != "" {
		if err := s.deps.Validator.ValidateWorkbookPath(wb); err != nil {
			return err
		}
		if err := exporter.WriteWorkbook(wb, tables); err != nil {
			return fmt.Errorf("%s: %w", wb, err)
		}
		infrastructure.RecordFileWritten(ctx, s.deps.Metrics, "workbook")
	}

	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata("tables", len(tables))
	}
	s.deps.Logger.InfoContext(ctx, "All tables saved as CSV.",
		slog.String("output_dir", s.deps.Paths.OutputDir),
		slog.Int("tables", len(tables)))
	return nil
}

// DrawFunc renders one figure from the loaded table
type DrawFunc func(r *figures.Renderer, t *dataset.Table, path string) error

// FigureStage renders one PNG
type FigureStage struct {
	BaseStage
	deps *Dependencies
	path string
	draw DrawFunc
}

// NewFigureStage creates a figure Step writing to path
func NewFigureStage(deps *Dependencies, id, name, path string, draw DrawFunc) *FigureStage {
	return &FigureStage{BaseStage: NewBaseStage(id, name), deps: deps, path: path, draw: draw}
}

// Execute draws the figure
func (s *FigureStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	if err := s.deps.Validator.ValidateOutputDirectory(s.deps.Paths.OutputDir); err != nil {
		return err
	}
	if err := s.draw(s.deps.Renderer, table, s.path); err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	infrastructure.RecordFileWritten(ctx, s.deps.Metrics, "figure")
	s.deps.Logger.InfoContext(ctx, "Figure saved", slog.String("path", s.path))
	return nil
}
