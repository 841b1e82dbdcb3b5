// build.go - vaxetl Build System
// Usage: go run build.go [-target=TARGET]
// Targets: build, test, integration, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"vaxetl/pkg/contracts"
)

const (
	module  = "vaxetl"
	binName = "vaxetl"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Version string
	Commit  string
}

var (
	distDir = "dist"

	// release platforms as GOOS/GOARCH
	releaseTargets = []string{"linux/amd64", "linux/arm64", "darwin/arm64", "windows/amd64"}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	version := flag.String("version", contracts.Version, "Version label of release artifacts")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{
		Verbose: *verbose,
		Version: *version,
		Commit:  gitCommit(),
	}

	switch *target {
	case "build":
		buildBinary(ctx, "", "", filepath.Join(distDir, binName+exeSuffix(os.Getenv("GOOS"))))
	case "test":
		runTests(ctx, false)
	case "integration":
		runTests(ctx, true)
	case "clean":
		clean()
	case "release":
		buildRelease(ctx)
	default:
		printError(fmt.Sprintf("Unknown target: %s", *target))
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "         vaxetl - Build System             " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func exeSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}

// gitCommit returns the short HEAD hash, or "unknown" outside a git checkout
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func ldflags(ctx *BuildContext) string {
	pkg := module + "/pkg/contracts"
	flags := fmt.Sprintf("-s -w -X %s.BuildTime=%s -X %s.GitCommit=%s",
		pkg, time.Now().UTC().Format(time.RFC3339), pkg, ctx.Commit)
	return flags
}

// buildBinary compiles cmd/vaxetl; empty goos and goarch mean the host platform
func buildBinary(ctx *BuildContext, goos, goarch, output string) {
	printInfo(fmt.Sprintf("Building %s...", output))

	args := []string{"build", "-trimpath", "-ldflags", ldflags(ctx), "-o", output, "./cmd/" + binName}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Env = os.Environ()
	if goos != "" {
		cmd.Env = append(cmd.Env, "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
	}
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", output, err))
		os.Exit(1)
	}

	if info, err := os.Stat(output); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", output, sizeMB))
	}
}

// buildRelease cross-compiles one binary per release platform
func buildRelease(ctx *BuildContext) {
	label := ctx.Version
	for _, platform := range releaseTargets {
		goos, goarch, _ := strings.Cut(platform, "/")
		name := fmt.Sprintf("%s-%s-%s-%s%s", binName, label, goos, goarch, exeSuffix(goos))
		buildBinary(ctx, goos, goarch, filepath.Join(distDir, name))
	}
}

// runTests runs the unit tests, plus the testcontainers tests when integration is set
func runTests(ctx *BuildContext, integration bool) {
	args := []string{"test", "-race"}
	if integration {
		printInfo("Running tests with the integration tag (needs Docker)...")
		args = append(args, "-tags", "integration")
	} else {
		printInfo("Running Go tests...")
	}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

// clean removes build output and the local run artifacts
func clean() {
	printInfo("Cleaning build artifacts and logs...")
	for _, dir := range []string{distDir, "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			printError(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v] [-version=LABEL]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build        build dist/vaxetl for the host platform")
	fmt.Println("  test         run unit tests")
	fmt.Println("  integration  run unit and testcontainers integration tests")
	fmt.Println("  clean        remove dist/ and logs/")
	fmt.Println("  release      cross-compile release binaries into dist/")
}
