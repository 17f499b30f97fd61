// Package exporter turns analysis results into the report tables and writes
// them to disk.
//
// Tables are built by the *Table functions and Results.Tables, which fix the
// column layout and number formatting of each file. CSVWriter writes them
// under the output directory and WriteWorkbook saves the same set as sheets
// of one XLSX file.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	for _, t := range results.Tables() {
//		if _, err := writer.WriteTable(t); err != nil {
//			return err
//		}
//	}
//	err := exporter.WriteWorkbook(paths.Workbook, results.Tables())
package exporter
