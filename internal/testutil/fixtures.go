package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RaceResults is a tab separated results file with three rider classes, two
// stage classes and one incomplete row. Class means are GC 11.5,
// Sprinter 19.75 and Climber 15.5.
const RaceResults = "all_riders\trider_class\tstage\tpoints\tstage_class\n" +
	"R1\tGC\t1\t10\tflat\n" +
	"R2\tGC\t2\t12\tmount\n" +
	"R3\tGC\t3\t11\tflat\n" +
	"R4\tGC\t4\t13\tmount\n" +
	"R5\tSprinter\t1\t20\tflat\n" +
	"R6\tSprinter\t2\t22\tmount\n" +
	"R7\tSprinter\t3\t19\tflat\n" +
	"R8\tSprinter\t4\t18\tmount\n" +
	"R9\tClimber\t1\t15\tflat\n" +
	"R10\tClimber\t2\t14\tmount\n" +
	"R11\tClimber\t3\t16\tflat\n" +
	"R12\tClimber\t4\t17\tmount\n" +
	"R13\t\t5\tNA\tflat\n"

// SingleClassResults has only one rider class, which the k-sample tests reject
const SingleClassResults = "rider_class\tstage_class\tpoints\n" +
	"GC\tflat\t1\n" +
	"GC\tmount\t2\n" +
	"GC\tflat\t3\n"

// WriteInput writes content to cycling.txt in a fresh temp directory and
// returns the file path
func WriteInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cycling.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}
