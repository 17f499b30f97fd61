// Package operations runs the two analysis pipelines as ordered lists of steps.
//
// A Step does one unit of work: load the dataset, compute one statistic,
// write the tables or draw one figure. Steps share data through the
// OperationState context. The Runner executes them strictly in order,
// opens a span per pipeline and per Step, records step metrics, and stops
// at the first failure, marking every later Step skipped. The returned
// error is an *OperationError naming the failed Step.
//
// Pipelines:
//
//	statistics:    load, describe, one_way_anova, kruskal_wallis,
//	               two_way_anova, tukey_hsd, summary, export_tables
//	visualization: load, figure_rider_boxplot, figure_stage_boxplot,
//	               figure_interaction, figure_histogram
//
// Example usage:
//
//	deps := operations.NewDependencies(cfg, tracer.Metrics(), logger)
//	reg, err := operations.StatisticsRegistry(deps)
//	if err != nil {
//		return err
//	}
//	state, err := operations.NewRunner(operations.PipelineStatistics, reg, tracer, logger).Run(ctx)
package operations
