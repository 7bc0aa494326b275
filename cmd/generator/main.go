package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-peyrard/hypo/slices"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

const dependencyAnnotationTag = "@dependency"

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}

func main() {
	dryRun := os.Getenv("DRY_RUN") == "true"

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	startScan := time.Now()

	// capture the target file/package, where the generator is invoked
	targetFile := os.Getenv("GOFILE")
	targetPackage := os.Getenv("GOPACKAGE")
	currentDir, _ := os.Getwd()
	targetFilePath := filepath.Join(currentDir, targetFile)

	// switch to the root of the module as we want to scan the whole module
	moduleRoot := findModuleRoot()
	if err := os.Chdir(moduleRoot); err != nil {
		logger.Fatal().Err(err).Msg("Failed to change directory to module root")
	}

	// we are looking for:
	// - struct fields and setter methods annotated with @dependency
	// - a struct that embeds hypo.EmptyRegistry, in the file triggering the generation
	var (
		members  []MemberDefinition
		registry *RegistryDefinition
	)

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load the packages of the module")
	}

	for _, pkg := range pkgs {
		logger := logger.With().Str("package", pkg.ID).Logger()
		logger.Debug().Msg("Scanning package")
		for _, file := range pkg.Syntax {
			if pkg.Fset.Position(file.Pos()).Filename == targetFilePath {
				if found := findRegistry(&logger, pkg.PkgPath, file); found != nil {
					registry = found
				}
			}
			members = append(members, findMembers(&logger, pkg.PkgPath, file)...)
		}
	}

	stopScan := time.Now()

	if registry == nil {
		logger.Error().Msgf("No Registry struct found in the target package: %s, make sure you have a struct like this:\ntype Registry struct {\n    hypo.EmptyRegistry\n}", targetPackage)
		os.Exit(1)
	}

	logger.Info().Msgf("👨‍🔧 Registry found: %+v", registry)
	logger.Info().Msgf("🎯 %d dependencies found in the module", len(members))
	logger.Debug().Msgf("Dependencies:\n%s", strings.Join(slices.Map(members, MemberDefinition.String), "\n----\n"))
	logger.Info().Msgf("🕵️‍♂️ Scanning completed in %s", stopScan.Sub(startScan))

	// generate the code
	outputPath := filepath.Join(
		filepath.Dir(targetFilePath),
		strings.TrimSuffix(filepath.Base(targetFilePath), ".go")+"_gen.go",
	)
	if dryRun {
		outputPath = filepath.Join(os.TempDir(), filepath.Base(outputPath))
	}

	code, err := generateCode(registry, members)
	if err == nil {
		err = writeFileAtomic(outputPath, code, 0o644)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Failed to generate code in %s", outputPath)
		os.Exit(1)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", outputPath)
}
