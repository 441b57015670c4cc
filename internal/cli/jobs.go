package cli

import (
	"context"
	"fmt"

	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/spf13/cobra"
)

var (
	importType  string
	importPages int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import popular titles from TMDB",
	Long: `Fetches the first pages of the TMDB popular list, drops adult and
denylisted titles, translates keywords, classifies each title and upserts it.
Re-importing a title updates it in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var mediaTypes []database.MediaType
		switch importType {
		case "all":
			mediaTypes = []database.MediaType{database.MediaTypeMovie, database.MediaTypeTV}
		default:
			mt := database.MediaType(importType)
			if !mt.Valid() {
				return fmt.Errorf("--type must be movie, tv or all, got %q", importType)
			}
			mediaTypes = []database.MediaType{mt}
		}

		return withEnrichment(cmd, func(ctx context.Context, svc services.EnrichmentService) error {
			for _, mt := range mediaTypes {
				report, err := svc.ImportPopular(ctx, mt, importPages)
				cmd.Println(report.String())
				if err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var updateRatingsCmd = &cobra.Command{
	Use:   "update-ratings",
	Short: "Refresh classifications and remove adult titles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd, services.EnrichmentService.UpdateRatings)
	},
}

var updateDetailsCmd = &cobra.Command{
	Use:   "update-details",
	Short: "Fill genres of titles imported without them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd, services.EnrichmentService.UpdateDetails)
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove titles without overview, blocked titles and duplicates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJob(cmd, services.EnrichmentService.Cleanup)
	},
}

func init() {
	importCmd.Flags().StringVarP(&importType, "type", "t", "movie", "media type to import: movie, tv or all")
	importCmd.Flags().IntVarP(&importPages, "pages", "p", 0, "number of pages to import (default from config)")

	rootCmd.AddCommand(importCmd, updateRatingsCmd, updateDetailsCmd, cleanupCmd)
}

func runJob(cmd *cobra.Command, job func(services.EnrichmentService, context.Context) (types.JobReport, error)) error {
	return withEnrichment(cmd, func(ctx context.Context, svc services.EnrichmentService) error {
		report, err := job(svc, ctx)
		cmd.Println(report.String())
		return err
	})
}

func withEnrichment(cmd *cobra.Command, fn func(context.Context, services.EnrichmentService) error) error {
	closeFn, err := loadModules(config.Get())
	if err != nil {
		return err
	}
	defer closeFn()

	svc, err := services.GetService[services.EnrichmentService](services.EnrichmentServiceName)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), svc)
}
