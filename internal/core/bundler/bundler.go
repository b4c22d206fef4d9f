// Package bundler resolves a module graph from an entry file and merges it
// into a single deliverable script plus the HTML document that loads it.
//
// The output is deterministic: module order depends only on the import graph,
// and no timestamps or absolute paths are written, so building twice with
// unchanged inputs produces byte-identical artifacts.
package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nightconcept/stage-go/internal/core/hasher"
)

// Options carries everything a single build invocation needs. It is derived
// from stage.toml by the caller; the bundler itself never reads configuration.
type Options struct {
	Root       string   // project root directory
	Entry      string   // entry module, relative to Root
	Outfile    string   // bundle filename inside OutDir
	OutDir     string   // output directory, relative to Root
	Extensions []string // resolution extensions, tried in order
	LibDir     string   // directory for bare (non-relative) imports
	Strict     bool     // fail on unresolved imports
	Target     string   // language target, recorded in the bundle banner
	HTMLEntry  string   // host page, relative to Root (optional)
	ReloadJS   string   // script snippet injected into the page when serving
}

// Result describes a completed build.
type Result struct {
	BundlePath string   // absolute path of the written bundle
	HTMLPath   string   // absolute path of the written page
	Modules    []string // bundled modules, dependency-first, slash-separated relative paths
	Warnings   []string // non-fatal resolution warnings (non-strict mode only)
	Hash       string   // sha256 of the bundle content
}

// importRe matches the import forms the bundler understands:
//
//	import "./module.js";
//	import { a, b } from "./module";
//	import * as ns from "lib";
//	import name from "./module";
var importRe = regexp.MustCompile(`^\s*import\s+(?:[\w$*{},\s]+\s+from\s+)?["']([^"']+)["']\s*;?\s*$`)

// scriptSrcRe matches the src attribute of the first script tag in the page.
var scriptSrcRe = regexp.MustCompile(`(<script[^>]*\bsrc=")[^"]*(")`)

// Build runs the bundling pipeline and writes the bundle and host page into
// OutDir. The returned Result is valid only when err is nil.
func Build(opts Options) (*Result, error) {
	if opts.Entry == "" {
		return nil, fmt.Errorf("bundler: no entry file configured")
	}
	if opts.Outfile == "" {
		return nil, fmt.Errorf("bundler: no outfile configured")
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".js"}
	}
	if opts.LibDir == "" {
		opts.LibDir = filepath.Join("src", "lib")
	}

	entryPath := filepath.Join(opts.Root, opts.Entry)
	if _, err := os.Stat(entryPath); err != nil {
		return nil, fmt.Errorf("bundler: entry file %s: %w", opts.Entry, err)
	}

	r := &resolver{opts: opts, state: make(map[string]int)}
	if err := r.visit(entryPath, nil); err != nil {
		return nil, err
	}

	var out strings.Builder
	out.WriteString("// generated by stage; do not edit\n")
	if opts.Target != "" {
		out.WriteString("// target: " + opts.Target + "\n")
	}
	if opts.Strict {
		out.WriteString("\"use strict\";\n")
	}
	for _, m := range r.order {
		rel := relSlash(opts.Root, m.path)
		out.WriteString("\n// ---- module: " + rel + " ----\n")
		out.WriteString(m.body)
	}

	outDir := filepath.Join(opts.Root, opts.OutDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("bundler: creating output directory: %w", err)
	}

	bundlePath := filepath.Join(outDir, opts.Outfile)
	bundleBytes := []byte(out.String())
	if err := os.WriteFile(bundlePath, bundleBytes, 0644); err != nil {
		return nil, fmt.Errorf("bundler: writing bundle: %w", err)
	}

	htmlPath, err := emitHTML(opts, outDir)
	if err != nil {
		return nil, err
	}

	hash, err := hasher.CalculateSHA256(bundleBytes)
	if err != nil {
		return nil, err
	}

	res := &Result{
		BundlePath: bundlePath,
		HTMLPath:   htmlPath,
		Warnings:   r.warnings,
		Hash:       hash,
	}
	for _, m := range r.order {
		res.Modules = append(res.Modules, relSlash(opts.Root, m.path))
	}
	return res, nil
}

type module struct {
	path string
	body string
}

const (
	stateVisiting = 1
	stateDone     = 2
)

type resolver struct {
	opts     Options
	state    map[string]int // keyed by absolute module path
	order    []*module      // dependency-first, entry last
	warnings []string
}

// visit walks the import graph depth-first. chain holds the current traversal
// path for cycle reporting.
func (r *resolver) visit(path string, chain []string) error {
	switch r.state[path] {
	case stateDone:
		return nil
	case stateVisiting:
		cycle := append(chain, path)
		parts := make([]string, len(cycle))
		for i, p := range cycle {
			parts[i] = relSlash(r.opts.Root, p)
		}
		return fmt.Errorf("bundler: import cycle detected: %s", strings.Join(parts, " -> "))
	}
	r.state[path] = stateVisiting
	chain = append(chain, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bundler: reading module %s: %w", relSlash(r.opts.Root, path), err)
	}

	var body strings.Builder
	for _, line := range strings.SplitAfter(string(data), "\n") {
		bare := strings.TrimSuffix(line, "\n")
		m := importRe.FindStringSubmatch(bare)
		if m == nil {
			body.WriteString(rewriteExports(bare))
			if strings.HasSuffix(line, "\n") {
				body.WriteString("\n")
			}
			continue
		}

		spec := m[1]
		resolved, ok := r.resolve(path, spec)
		if !ok {
			if r.opts.Strict {
				return fmt.Errorf("bundler: cannot resolve import %q in %s", spec, relSlash(r.opts.Root, path))
			}
			r.warnings = append(r.warnings, fmt.Sprintf("unresolved import %q in %s", spec, relSlash(r.opts.Root, path)))
			body.WriteString("// unresolved import \"" + spec + "\"\n")
			continue
		}
		if err := r.visit(resolved, chain); err != nil {
			return err
		}
		body.WriteString("// import \"" + spec + "\" (bundled)\n")
	}

	if s := body.String(); s != "" && !strings.HasSuffix(s, "\n") {
		body.WriteString("\n")
	}

	r.state[path] = stateDone
	r.order = append(r.order, &module{path: path, body: body.String()})
	return nil
}

// resolve maps an import specifier to a file on disk. Relative specifiers
// resolve against the importing module's directory, bare specifiers against
// the library directory. Each candidate is tried as-is and then with every
// configured extension appended.
func (r *resolver) resolve(importer, spec string) (string, bool) {
	var base string
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		base = filepath.Join(filepath.Dir(importer), filepath.FromSlash(spec))
	} else {
		base = filepath.Join(r.opts.Root, r.opts.LibDir, filepath.FromSlash(spec))
	}

	candidates := []string{base}
	if filepath.Ext(base) == "" {
		for _, ext := range r.opts.Extensions {
			candidates = append(candidates, base+ext)
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// rewriteExports makes exported declarations valid in a single concatenated
// script: "export " prefixes are dropped and default exports become plain
// expression statements.
func rewriteExports(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if rest, ok := strings.CutPrefix(trimmed, "export default "); ok {
		return indent + "/* default export */ " + rest
	}
	if rest, ok := strings.CutPrefix(trimmed, "export "); ok {
		return indent + rest
	}
	return line
}

// defaultHTML is the host page used when the project has none. The canvas id
// must match the surface identifier the entry script looks up.
const defaultHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>stage demo</title>
    <style>
        html, body { margin: 0; padding: 0; width: 100%; height: 100%; }
        #render-canvas { width: 100%; height: 100%; display: block; }
    </style>
</head>
<body>
    <canvas id="render-canvas"></canvas>
    <script src="bundle.js"></script>
</body>
</html>
`

func emitHTML(opts Options, outDir string) (string, error) {
	page := defaultHTML
	if opts.HTMLEntry != "" {
		data, err := os.ReadFile(filepath.Join(opts.Root, opts.HTMLEntry))
		if err == nil {
			page = string(data)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("bundler: reading host page %s: %w", opts.HTMLEntry, err)
		}
	}

	page = scriptSrcRe.ReplaceAllString(page, "${1}"+opts.Outfile+"${2}")
	if opts.ReloadJS != "" {
		page = strings.Replace(page, "</body>", "    <script>"+opts.ReloadJS+"</script>\n</body>", 1)
	}

	htmlPath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("bundler: writing host page: %w", err)
	}
	return htmlPath, nil
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
