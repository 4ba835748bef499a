package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summeets/engine/application/jobs"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and maintain job history",
	}
	cmd.AddCommand(jobsListCmd(), jobsCleanupCmd())
	return cmd
}

func jobsListCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs from the history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, dataDir)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.history.ListJobs(limit, jobs.ListFilter{})
			if err != nil {
				return fmt.Errorf("listing jobs: %w", err)
			}
			for _, r := range records {
				fmt.Printf("%-36s %-10s %-10s %s\n", r.JobID, r.JobType, r.Status, r.InputFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "root of the persisted data tree")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of jobs to list")

	return cmd
}

func jobsCleanupCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		days       int
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove job history records older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, dataDir)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.history.CleanupOldJobs(days)
			if err != nil {
				return fmt.Errorf("cleaning up job history: %w", err)
			}
			fmt.Printf("removed %d job records older than %d days\n", n, days)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "root of the persisted data tree")
	cmd.Flags().IntVar(&days, "days", 30, "age threshold in days")

	return cmd
}
