package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"izpack/internal/app"
)

type inspectOptions struct {
	Installer string
	Verify    bool
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect [installer]",
		Short: "Inspect the metadata and packs of an installer jar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Installer = args[0]
				_ = cmd.Flags().Set("installer", args[0])
			}
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Installer, "installer", "install.jar", "Installer jar to inspect")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "Read back every pack file and check its length")
	_ = viper.BindPFlag("installer", cmd.Flags().Lookup("installer"))
	_ = viper.BindPFlag("verify", cmd.Flags().Lookup("verify"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		InstallerPath: resolveString(cmd, opts.Installer, "installer", "installer"),
		Verify:        resolveBool(cmd, opts.Verify, "verify", "verify"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("installer: %s\n", result.Path)
	fmt.Printf("application: %s %s\n", result.AppName, result.AppVersion)
	fmt.Printf("compression: %s (separate pack archives: %t)\n", result.Compression, result.Separate)
	fmt.Printf("entries: %d\n", result.EntryCount)
	if len(result.Panels) > 0 {
		fmt.Printf("panels: %s\n", strings.Join(result.Panels, ", "))
	}
	if len(result.LangPacks) > 0 {
		fmt.Printf("langpacks: %s\n", strings.Join(result.LangPacks, ", "))
	}
	fmt.Println("packs:")
	for _, pack := range result.Packs {
		fmt.Printf("- %s: %d files, %d dirs, %d linked, size=%d fileSize=%d\n",
			pack.Name, pack.Files, pack.Directories, pack.Linked, pack.Size, pack.FileSize)
	}
	if result.VerifiedFiles > 0 {
		fmt.Printf("verified files: %d\n", result.VerifiedFiles)
	}
	return nil
}
