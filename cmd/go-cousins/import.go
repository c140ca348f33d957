package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/importer"
)

func newImportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: config.CmdShortImport,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.OutOrStdout(), args[0], out)
		},
	}
	cmd.Flags().StringVar(&out, config.FlagOut, config.DefaultDataFile, config.FlagDescOut)
	return cmd
}

// runImport converts src to a people JSON file at dst.
func runImport(w io.Writer, src, dst string) error {
	if !importer.Supported(src) {
		return fmt.Errorf("%w: %q", importer.ErrUnsupportedFormat, filepath.Ext(src))
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPeopleRead, err)
	}
	defer func() { _ = f.Close() }()

	people, err := importer.Import(src, f)
	if err != nil {
		return err
	}
	if err := importer.WritePeopleFile(dst, people); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, config.MsgImportOutput, len(people), dst)
	return err
}
