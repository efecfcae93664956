package cmd

import (
	"github.com/spf13/cobra"

	"github.com/structforge/winmdgen/pkg/action/generate"
	"github.com/structforge/winmdgen/pkg/generator"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	options := generator.NewOptions()

	var genCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate type declarations",
		Long:  "Generate ABI-faithful type declarations from metadata documents",
		RunE: func(c *cobra.Command, args []string) error {
			return generate.Generate(options)
		},
	}
	genCmd.PersistentFlags().StringSliceVarP(&options.Inputs, "input", "i", []string{}, "metadata document(s) to load")
	genCmd.PersistentFlags().StringVarP(&options.OutDir, "output-directory", "o", "winapi", "directory to write generated types")
	genCmd.PersistentFlags().StringVarP(&options.OutFile, "output-file", "f", "types_gen.go", "output file where types will be written")
	genCmd.PersistentFlags().StringVarP(&options.Package, "package", "p", "", "package name of the generated file (defaults to the output directory name)")
	genCmd.PersistentFlags().StringVar(&options.SupportPath, "support-path", "", "import path of the runtime support package")
	genCmd.PersistentFlags().StringSliceVarP(&options.Namespaces, "namespace", "n", []string{}, "restrict generation to these namespaces")

	return genCmd
}
