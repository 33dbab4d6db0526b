package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/JospenWolongwo/barber-shop-website/internal/config"
	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/httpserver"
	"github.com/JospenWolongwo/barber-shop-website/internal/i18n"
	"github.com/JospenWolongwo/barber-shop-website/internal/seo"
	"github.com/JospenWolongwo/barber-shop-website/ui"
)

var printJSONLD bool

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect the site content",
}

var contentCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the content catalog, locales and templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.WithEnvFile(envFile))
		if err != nil {
			return err
		}
		var fsys fs.FS = ui.FS()
		if uiDir != "" {
			fsys = os.DirFS(uiDir)
		}
		return checkContent(cmd, fsys, cfg)
	},
}

func init() {
	contentCheckCmd.Flags().BoolVar(&printJSONLD, "jsonld", false, "print the structured data generated from the catalog")
	contentCmd.AddCommand(contentCheckCmd)
	rootCmd.AddCommand(contentCmd)
}

func checkContent(cmd *cobra.Command, fsys fs.FS, cfg config.Config) error {
	catalog, err := content.Load(fsys, content.DefaultPath)
	if err != nil {
		return err
	}
	if _, err := i18n.Load(fsys, "locales", cfg.Site.DefaultLocale, cfg.Site.SupportedLocales); err != nil {
		return err
	}
	if _, err := httpserver.NewTemplates(fsys); err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "content ok: %d services, %d gallery images, %d prices, %d testimonials\n",
		len(catalog.Services), len(catalog.Gallery), len(catalog.Pricing.Items), len(catalog.Testimonials.Items))
	if printJSONLD {
		fmt.Fprintln(out, seo.JSON(seo.HairSalon(catalog, cfg.Site.BaseURL+"/")))
	}
	return nil
}
