package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"izpack/internal/app"
)

type compileOptions struct {
	Descriptor  string
	Output      string
	BaseDir     string
	Mkdirs      bool
	Compression string
	Level       int
	Skeleton    string
	Manifest    map[string]string
	Timestamp   string
	SBOM        bool
	PackIndex   bool
}

func newCompileCommand() *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile [descriptor]",
		Short: "Compile an install descriptor into an installer jar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Descriptor = args[0]
				_ = cmd.Flags().Set("descriptor", args[0])
			}
			return runCompile(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "", "Install descriptor path (default: ./install.yaml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "install.jar", "Installer jar to write")
	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", "", "Directory relative sources resolve against (default: descriptor directory)")
	cmd.Flags().BoolVar(&opts.Mkdirs, "mkdirs", true, "Create missing parent directories of the output")
	cmd.Flags().StringVar(&opts.Compression, "compression", "", "Override the pack compression format (default, deflate, gzip, bzip2, xz, lzma)")
	cmd.Flags().IntVar(&opts.Level, "level", 9, "Archive compression level 0-9; other values select the best compression")
	cmd.Flags().StringVar(&opts.Skeleton, "skeleton", "", "Installer runtime directory or jar merged into the installer")
	cmd.Flags().StringToStringVar(&opts.Manifest, "manifest", nil, "Extra manifest attributes (key=value)")
	cmd.Flags().StringVar(&opts.Timestamp, "timestamp", "", "Pin entry times (Unix seconds or RFC 3339; also SOURCE_DATE_EPOCH)")
	cmd.Flags().BoolVar(&opts.SBOM, "sbom", false, "Write an SPDX SBOM next to the installer")
	cmd.Flags().BoolVar(&opts.PackIndex, "pack-index", false, "Write the pack index report next to the installer")

	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("base_dir", cmd.Flags().Lookup("base-dir"))
	_ = viper.BindPFlag("mkdirs", cmd.Flags().Lookup("mkdirs"))
	_ = viper.BindPFlag("compression", cmd.Flags().Lookup("compression"))
	_ = viper.BindPFlag("compression_level", cmd.Flags().Lookup("level"))
	_ = viper.BindPFlag("skeleton", cmd.Flags().Lookup("skeleton"))
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("timestamp", cmd.Flags().Lookup("timestamp"))
	_ = viper.BindEnv("timestamp", envPrefix+"_TIMESTAMP", "SOURCE_DATE_EPOCH")
	_ = viper.BindPFlag("sbom", cmd.Flags().Lookup("sbom"))
	_ = viper.BindPFlag("pack_index", cmd.Flags().Lookup("pack-index"))

	return cmd
}

func runCompile(ctx context.Context, cmd *cobra.Command, opts compileOptions) error {
	service := newAppService()
	result, err := service.Compile(ctx, app.CompileRequest{
		DescriptorPath:  resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		Output:          resolveString(cmd, opts.Output, "output", "output"),
		BaseDir:         resolveString(cmd, opts.BaseDir, "base_dir", "base-dir"),
		Mkdirs:          resolveBool(cmd, opts.Mkdirs, "mkdirs", "mkdirs"),
		Compression:     resolveString(cmd, opts.Compression, "compression", "compression"),
		Level:           resolveInt(cmd, opts.Level, "compression_level", "level"),
		SkeletonPath:    resolveString(cmd, opts.Skeleton, "skeleton", "skeleton"),
		ManifestEntries: resolveStringMap(cmd, opts.Manifest, "manifest", "manifest"),
		Timestamp:       resolveString(cmd, opts.Timestamp, "timestamp", "timestamp"),
		SBOM:            resolveBool(cmd, opts.SBOM, "sbom", "sbom"),
		PackIndex:       resolveBool(cmd, opts.PackIndex, "pack_index", "pack-index"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("installer: %s (%d entries, %d packs)\n", result.Output, result.EntryCount, result.PackCount)
	for _, archive := range result.PackArchives {
		fmt.Printf("pack archive: %s\n", archive)
	}
	if result.SBOMPath != "" {
		fmt.Printf("sbom: %s\n", result.SBOMPath)
	}
	if result.PackIndexPath != "" {
		fmt.Printf("pack index: %s\n", result.PackIndexPath)
	}
	return nil
}
