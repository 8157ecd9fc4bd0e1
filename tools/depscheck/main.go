package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const modulePath = "mine-and-die/pursuit"

type packageInfo struct {
	ImportPath string
	Imports    []string
}

// layerRule forbids packages under From from importing anything under To,
// except the paths listed in Allow.
type layerRule struct {
	From  string
	To    []string
	Allow []string
}

// The pursuit core only sees its collaborators through interfaces; the world
// and the loop plug into it, never the other way round.
var rules = []layerRule{
	{
		From:  "internal/movement",
		To:    []string{"internal/world", "internal/sim", "internal/app", "internal/config"},
		Allow: []string{"internal/world/state"},
	},
	{From: "internal/world", To: []string{"internal/sim", "internal/app", "internal/config"}},
	{
		From:  "internal/sim",
		To:    []string{"internal/world", "internal/app", "internal/config"},
		Allow: []string{"internal/world/state"},
	},
	{From: "logging", To: []string{"internal/"}},
}

func main() {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	decoder := json.NewDecoder(bytes.NewReader(output))

	var violations []string
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
			os.Exit(1)
		}
		violations = append(violations, check(pkg)...)
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

func check(pkg packageInfo) []string {
	rel, ok := relative(pkg.ImportPath)
	if !ok {
		return nil
	}
	var violations []string
	for _, rule := range rules {
		if !within(rel, rule.From) {
			continue
		}
		for _, imp := range pkg.Imports {
			impRel, ok := relative(imp)
			if !ok || allowed(impRel, rule.Allow) {
				continue
			}
			for _, forbidden := range rule.To {
				if within(impRel, forbidden) {
					violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
				}
			}
		}
	}
	return violations
}

func allowed(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if within(path, prefix) {
			return true
		}
	}
	return false
}

func relative(importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, modulePath+"/") {
		return "", false
	}
	return strings.TrimPrefix(importPath, modulePath+"/"), true
}

func within(path, prefix string) bool {
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix)
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
