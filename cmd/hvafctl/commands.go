package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

// cmdDeps regroupe les dépendances injectables des commandes
type cmdDeps struct {
	Out  io.Writer
	Err  io.Writer
	Open func(ctx context.Context) (database.Store, func(), error)
}

func newRootCmd(deps *cmdDeps) *cobra.Command {
	root := &cobra.Command{
		Use:           "hvafctl",
		Short:         "Administration tools for the Humanity Verse backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)

	root.AddCommand(
		newSeedStatsCmd(deps),
		newMigrateGalleryCmd(deps),
		newCreateAdminCmd(deps),
		newGalleryCmd(deps),
		newVideoIDCmd(deps),
	)
	return root
}

// withStore ouvre le store le temps d'une commande
func withStore(cmd *cobra.Command, deps *cmdDeps, fn func(ctx context.Context, store database.Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, closeStore, err := deps.Open(ctx)
	if err != nil {
		return fmt.Errorf("ouverture du store: %w", err)
	}
	defer closeStore()
	return fn(ctx, store)
}

func newSeedStatsCmd(deps *cmdDeps) *cobra.Command {
	var stats models.Statistics

	cmd := &cobra.Command{
		Use:   "seed-stats",
		Short: "Create the homepage statistics document, or overwrite it when values are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			overwrite := cmd.Flags().NFlag() > 0
			if overwrite && (stats.ChildrenHelped < 0 || stats.ProgramsRunning < 0 || stats.PartnerOrganizations < 0 ||
				stats.SuccessRate < 0 || stats.SuccessRate > 100) {
				return errors.New("statistics must be non-negative and success rate at most 100")
			}
			return withStore(cmd, deps, func(ctx context.Context, store database.Store) error {
				repo := database.NewStatisticsRepository(store, zap.NewNop())
				current := stats
				if overwrite {
					if err := repo.Update(ctx, stats); err != nil {
						return err
					}
				} else {
					// Crée le document à zéro s'il n'existe pas encore
					existing, err := repo.Get(ctx)
					if err != nil {
						return err
					}
					current = existing
				}
				fmt.Fprintf(deps.Out, "✅ Statistiques: %d enfants, %d programmes, %d%%, %d partenaires\n",
					current.ChildrenHelped, current.ProgramsRunning, current.SuccessRate, current.PartnerOrganizations)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&stats.ChildrenHelped, "children", 0, "children helped")
	cmd.Flags().Int64Var(&stats.ProgramsRunning, "programs", 0, "programs running")
	cmd.Flags().Int64Var(&stats.SuccessRate, "success", 0, "success rate (0-100)")
	cmd.Flags().Int64Var(&stats.PartnerOrganizations, "partners", 0, "partner organizations")
	cmd.MarkFlagsRequiredTogether("children", "programs", "success", "partners")
	return cmd
}

func newMigrateGalleryCmd(deps *cmdDeps) *cobra.Command {
	var rawKind string

	cmd := &cobra.Command{
		Use:   "migrate-gallery",
		Short: "Copy active items from galleryImages/galleryVideos into the public gallery",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []models.MediaKind{models.KindImage, models.KindVideo}
			if rawKind != "" {
				kind, ok := models.ParseMediaKind(rawKind)
				if !ok {
					return fmt.Errorf("unknown kind %q (image or video)", rawKind)
				}
				kinds = []models.MediaKind{kind}
			}

			static, err := database.LoadStaticGallery()
			if err != nil {
				return err
			}

			return withStore(cmd, deps, func(ctx context.Context, store database.Store) error {
				repo := database.NewGalleryRepository(store, static, zap.NewNop())
				for _, kind := range kinds {
					report, err := repo.MigrateLegacy(ctx, kind)
					if err != nil {
						return err
					}
					for _, rejected := range report.Rejected {
						fmt.Fprintf(deps.Err, "⚠️  %v\n", rejected)
					}
					fmt.Fprintf(deps.Out, "✅ %s: %d repris, %d déjà présents, %d rejetés\n",
						database.LegacyCollectionFor(kind), report.Imported, report.Skipped, len(report.Rejected))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&rawKind, "kind", "", "image or video (both by default)")
	return cmd
}

func newCreateAdminCmd(deps *cmdDeps) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account for the local auth provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, deps, func(ctx context.Context, store database.Store) error {
				admin, err := services.CreateAdmin(ctx, store, email, password)
				if err != nil {
					if errors.Is(err, database.ErrAlreadyExists) {
						return fmt.Errorf("admin %s already exists", email)
					}
					return err
				}
				fmt.Fprintf(deps.Out, "✅ Admin créé: %s\n", admin.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newGalleryCmd(deps *cmdDeps) *cobra.Command {
	gallery := &cobra.Command{
		Use:   "gallery",
		Short: "Inspect the public gallery",
	}

	var rawKind string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active gallery items (built-in items first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := models.ParseMediaKind(rawKind)
			if !ok {
				return fmt.Errorf("unknown kind %q (image or video)", rawKind)
			}

			static, err := database.LoadStaticGallery()
			if err != nil {
				return err
			}

			return withStore(cmd, deps, func(ctx context.Context, store database.Store) error {
				repo := database.NewGalleryRepository(store, static, zap.NewNop())
				items := repo.List(ctx, kind)

				tw := tabwriter.NewWriter(deps.Out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tORDER\tSOURCE\tTITLE")
				for _, item := range items {
					source := "store"
					if item.Static {
						source = "static"
					}
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", item.ID, item.Order, source, item.Title)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(deps.Out, "%d élément(s)\n", len(items))
				return nil
			})
		},
	}
	list.Flags().StringVar(&rawKind, "kind", string(models.KindImage), "image or video")

	gallery.AddCommand(list)
	return gallery
}

func newVideoIDCmd(deps *cmdDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "video-id <url-or-id>",
		Short: "Print the YouTube id extracted from a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(deps.Out, utils.NormalizeYouTubeID(args[0]))
			return nil
		},
	}
}
