// Package generator carries the options controlling a generation run.
package generator

import (
	"path/filepath"
	"strings"
)

// Options control a generation run.
//
// Inputs       – metadata documents to load.
// OutDir       – output directory.
// OutFile      – output filename.
// Package      – package name of the generated file (derived from OutDir when empty).
// SupportPath  – import path of the runtime support package referenced by output.
// Namespaces   – restrict generation to these namespaces (all when empty).
type Options struct {
	Inputs      []string `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty" mapstructure:"inputs,omitempty"`
	OutDir      string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile     string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Package     string   `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty" mapstructure:"package,omitempty"`
	SupportPath string   `json:"support_path,omitempty" yaml:"support_path,omitempty" toml:"support_path,omitempty" mapstructure:"support_path,omitempty"`
	Namespaces  []string `json:"namespaces,omitempty" yaml:"namespaces,omitempty" toml:"namespaces,omitempty" mapstructure:"namespaces,omitempty"`
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		OutDir:  "winapi",
		OutFile: "types_gen.go",
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// Normalize fills in defaults and resolves relative paths.
func (o *Options) Normalize() {
	if len(o.OutDir) == 0 {
		o.OutDir = "winapi"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if len(o.OutFile) == 0 {
		o.OutFile = "types_gen.go"
	}
	if o.Package == "" {
		o.Package = filepath.Base(o.OutDir)
	}
}

// IncludesNamespace reports whether the run covers the given namespace.
func (o *Options) IncludesNamespace(ns string) bool {
	if len(o.Namespaces) == 0 {
		return true
	}
	for _, n := range o.Namespaces {
		if strings.EqualFold(n, ns) {
			return true
		}
	}
	return false
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInputs(files ...string) Option {
	return func(o *Options) { o.Inputs = append(o.Inputs, files...) }
}
func WithOutDir(d string) Option       { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option      { return func(o *Options) { o.OutFile = f } }
func WithPackage(p string) Option      { return func(o *Options) { o.Package = p } }
func WithSupportPath(p string) Option  { return func(o *Options) { o.SupportPath = p } }
func WithNamespaces(ns ...string) Option {
	return func(o *Options) {
		for _, n := range ns {
			o.Namespaces = append(o.Namespaces, strings.TrimSpace(n))
		}
	}
}
