// Package openscad turns OpenSCAD sources into STL with the openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotInstalled is returned when no openscad binary is on PATH
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

// dependencyPattern matches "use <file.scad>" and "include <file.scad>"
var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// RenderToSTL renders an OpenSCAD file into outputFile
func RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	binary, err := exec.LookPath("openscad")
	if err != nil {
		return ErrNotInstalled
	}

	absScadFile, err := filepath.Abs(scadFile)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", scadFile, err)
	}

	cmd := exec.CommandContext(ctx, binary, "-o", outputFile, absScadFile)
	cmd.Dir = filepath.Dir(absScadFile)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if output.Len() > 0 {
			return fmt.Errorf("failed to render %s: %w\n%s", scadFile, err, strings.TrimSpace(output.String()))
		}
		return fmt.Errorf("failed to render %s: %w", scadFile, err)
	}
	return nil
}

// Dependencies returns the file itself followed by every file it uses or
// includes, recursively, as absolute paths.
func Dependencies(scadFile string) ([]string, error) {
	absScadFile, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", scadFile, err)
	}

	visited := make(map[string]bool)
	var deps []string
	var visit func(file string) error
	visit = func(file string) error {
		if visited[file] {
			return nil
		}
		visited[file] = true
		deps = append(deps, file)

		direct, err := parseDependencies(file)
		if err != nil {
			return err
		}
		for _, dep := range direct {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(absScadFile); err != nil {
		return nil, err
	}
	return deps, nil
}

func parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	dir := filepath.Dir(scadFile)
	var deps []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, filepath.Clean(filepath.Join(dir, m[1])))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}
