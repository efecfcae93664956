// Package generate drives a full generation run: load metadata documents,
// build structural models, order them by their collected dependencies, and
// render one generated source file.
package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"golang.org/x/mod/modfile"

	"github.com/structforge/winmdgen/internal/builder"
	"github.com/structforge/winmdgen/internal/emit"
	"github.com/structforge/winmdgen/internal/metadata"
	"github.com/structforge/winmdgen/internal/model"
	"github.com/structforge/winmdgen/pkg/generator"
)

// Generate runs the pipeline described by opts and writes the output file.
func Generate(opts *generator.Options) error {
	opts.Normalize()

	reader := metadata.NewReader()
	for _, in := range opts.Inputs {
		doc, err := metadata.LoadDocument(in)
		if err != nil {
			return err
		}
		if !opts.IncludesNamespace(doc.Namespace) {
			slog.Debug("skipping namespace", "namespace", doc.Namespace, "file", in)
			continue
		}
		defs, err := doc.TypeDefs()
		if err != nil {
			return err
		}
		for _, def := range defs {
			reader.Add(def)
		}
	}

	b := builder.New(reader)
	var models []*model.Struct
	for _, def := range reader.TypeDefs() {
		if def.Kind != metadata.DefStruct {
			continue
		}
		m, err := b.Build(def)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	ordered := Order(models)

	pkgPath, err := packagePath(opts.OutDir)
	if err != nil {
		// Outside a module the generated file still renders; imports just
		// cannot collide with the output package itself.
		slog.Debug("no module context for output", "dir", opts.OutDir, "error", err)
		pkgPath = opts.Package
	}

	f := emit.New(opts.SupportPath).File(pkgPath, opts.Package, ordered)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	outFile := filepath.Clean(filepath.Join(opts.OutDir, opts.OutFile))
	ff, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer ff.Close()

	if err := f.Render(ff); err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	slog.Info("generated", "file", outFile, "types", len(ordered))
	return nil
}

// Order sorts models so that referenced types precede their referrers,
// breaking ties and cycles by qualified name. Repeated runs over the same
// input produce the same sequence.
func Order(models []*model.Struct) []*model.Struct {
	byName := make(map[string]*model.Struct, len(models))
	names := make([]string, 0, len(models))
	for _, m := range models {
		qn := m.Def.QualifiedName()
		byName[qn] = m
		names = append(names, qn)
	}
	sort.Strings(names)

	visited := make(map[string]bool, len(models))
	out := make([]*model.Struct, 0, len(models))

	var visit func(m *model.Struct)
	visit = func(m *model.Struct) {
		qn := m.Def.QualifiedName()
		if visited[qn] {
			return
		}
		visited[qn] = true

		depNames := make([]string, 0)
		seen := make(map[string]bool)
		for _, d := range builder.Dependencies(m) {
			dqn := d.QualifiedName()
			if !seen[dqn] {
				seen[dqn] = true
				depNames = append(depNames, dqn)
			}
		}
		sort.Strings(depNames)
		for _, dqn := range depNames {
			if dep, ok := byName[dqn]; ok {
				visit(dep)
			}
		}
		out = append(out, m)
	}

	for _, n := range names {
		visit(byName[n])
	}
	return out
}

// packagePath derives the output package's import path from the module the
// output directory lives in, so the renderer can resolve self-imports.
func packagePath(outDir string) (string, error) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		gomod := filepath.Join(dir, "go.mod")
		data, err := os.ReadFile(gomod)
		if err == nil {
			mf, err := modfile.Parse(gomod, data, nil)
			if err != nil {
				return "", fmt.Errorf("parse %s: %w", gomod, err)
			}
			rel, err := filepath.Rel(dir, abs)
			if err != nil {
				return "", err
			}
			return path.Join(mf.Module.Mod.Path, filepath.ToSlash(rel)), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above %s", outDir)
		}
		dir = parent
	}
}
