package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store counts and the ingest audit log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "status: migrate")
		}

		persons, err := st.CountPersons(ctx)
		if err != nil {
			return eris.Wrap(err, "status")
		}
		jobs, err := st.CountJobs(ctx)
		if err != nil {
			return eris.Wrap(err, "status")
		}
		entries, err := st.ListIngests(ctx)
		if err != nil {
			return eris.Wrap(err, "status")
		}

		fmt.Printf("persons: %d\njobs: %d\n\n", persons, jobs)
		if len(entries) == 0 {
			fmt.Println("no ingests recorded")
			return nil
		}
		fmt.Printf("%-40s %10s %10s  %s\n", "FILE", "LOADED", "SKIPPED", "FINISHED")
		for _, e := range entries {
			fmt.Printf("%-40s %10d %10d  %s\n",
				e.File, e.Loaded, e.Skipped, e.FinishedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
