//go:build ignore

// build.go - cyclingstats build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const (
	binary  = "cyclingstats"
	mainPkg = "./cmd/cyclingstats"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Release bool
}

var (
	rootDir string
	distDir string

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s, run the build from the repository root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if runtime.GOOS == "windows" {
		colorReset, colorRed, colorGreen, colorYellow, colorCyan = "", "", "", "", ""
	}

	fmt.Printf("%s== %s build ==%s\n", colorCyan, binary, colorReset)
	startTime := time.Now()
	ctx := &BuildContext{Verbose: *verbose}

	switch *target {
	case "all":
		runTests(ctx)
		buildBinary(ctx)
	case "build":
		buildBinary(ctx)
	case "test":
		runTests(ctx)
	case "clean":
		clean(ctx)
	case "release":
		ctx.Release = true
		clean(ctx)
		runTests(ctx)
		buildBinary(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Printf("%s> %s%s\n", colorYellow, msg, colorReset)
}

func printSuccess(msg string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, msg, colorReset)
}

func printError(msg string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, msg, colorReset)
}

func buildBinary(ctx *BuildContext) {
	out := filepath.Join(distDir, binary)
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", out))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}

	args := []string{"build", "-o", out}
	if ctx.Release {
		args = append(args, "-trimpath", "-ldflags", "-s -w")
	}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, mainPkg)

	if err := goCommand(args...); err != nil {
		printError(fmt.Sprintf("Build failed: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Built %s", out))
}

func runTests(ctx *BuildContext) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := goCommand(args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean(ctx *BuildContext) {
	printInfo("Cleaning build artifacts and logs...")
	for _, dir := range []string{distDir, filepath.Join(rootDir, "logs")} {
		if ctx.Verbose {
			printInfo("Removing " + dir)
		}
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			printError(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

func goCommand(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all       Run tests and build cyclingstats (default)")
	fmt.Println("  build     Build cyclingstats into dist/")
	fmt.Println("  test      Run all tests")
	fmt.Println("  clean     Remove dist/ and logs/")
	fmt.Println("  release   Clean, test and build a stripped binary")
}
