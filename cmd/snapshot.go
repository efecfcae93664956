package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/structforge/winmdgen/pkg/action/snapshot"
	"github.com/structforge/winmdgen/pkg/generator"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var (
		options         = generator.NewOptions()
		manifestPath    string
		snapshotVersion string
	)

	var snapCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "generate and record a snapshot",
		Long:  "Generate type declarations and record the output in the snapshot manifest",
		RunE: func(c *cobra.Command, args []string) error {
			if snapshotVersion == "" {
				snapshotVersion = viper.GetString("version")
			}
			out, err := snapshot.Generate(options, manifestPath, snapshotVersion)
			if err != nil {
				return err
			}
			c.Println(out)
			return nil
		},
	}
	snapCmd.PersistentFlags().StringSliceVarP(&options.Inputs, "input", "i", []string{}, "metadata document(s) to load")
	snapCmd.PersistentFlags().StringVarP(&options.OutDir, "output-directory", "o", "winapi", "directory to write generated types")
	snapCmd.PersistentFlags().StringVarP(&options.OutFile, "output-file", "f", "types_gen.go", "output file where types will be written")
	snapCmd.PersistentFlags().StringVarP(&options.Package, "package", "p", "", "package name of the generated file")
	snapCmd.PersistentFlags().StringSliceVarP(&options.Namespaces, "namespace", "n", []string{}, "restrict generation to these namespaces")
	snapCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "winmdgen.manifest.yaml", "snapshot manifest path")
	snapCmd.PersistentFlags().StringVarP(&snapshotVersion, "snapshot-version", "V", "", "metadata version to record the snapshot under")

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			d, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if d == "" {
				c.Println("no differences")
				return nil
			}
			fmt.Fprint(c.OutOrStdout(), d)
			return nil
		},
	}
	snapCmd.AddCommand(diffCmd)

	return snapCmd
}
