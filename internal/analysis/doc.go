// Package analysis implements the statistics behind the race tables:
// grouped descriptive statistics, one-way ANOVA, the Kruskal-Wallis H test,
// two-way ANOVA with interaction (Type II or Type III sums of squares) and
// Tukey HSD pairwise comparisons.
//
// Every test takes already-grouped values and returns a plain result struct.
// Inputs that make a statistic undefined are reported as PRECONDITION errors
// from internal/errors rather than as NaN results.
package analysis
