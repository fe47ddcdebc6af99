package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mroshb/quizline/internal/database"
	"github.com/mroshb/quizline/internal/importer"
	"github.com/mroshb/quizline/internal/repositories"
	"github.com/mroshb/quizline/pkg/logger"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Add the quizzes of a spreadsheet to the catalog (column A question, column B answer).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			report, err := importer.ImportFile(cmd.Context(), repositories.NewQuizRepository(db), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, skipped := range report.Skipped {
				fmt.Fprintf(out, "skipped %s\n", skipped)
			}
			fmt.Fprintf(out, "Successfully imported %d quizzes.\n", report.Imported)
			return nil
		},
	}
}
