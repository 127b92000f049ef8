package main

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/redcanvas/editor"
	"github.com/ByLCY/redcanvas/fonts"
	"github.com/ByLCY/redcanvas/template"
)

func (a *app) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the card templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("%s\n", styleTitle.Render("Templates"))
			for _, t := range editor.Templates {
				size := template.TitleSize(t.ID)
				a.printf("%s\n", row(string(t.ID), swatch(t.PreviewColor), t.Name,
					styleDim.Render(t.Description), styleDim.Render("title "+size.String())))
			}
			return nil
		},
	}
}

func (a *app) fontsCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List title fonts and where their data comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := fonts.NewSet(a.cfg.Fonts)
			a.printf("%s\n", styleTitle.Render("Fonts"))
			for _, f := range editor.Fonts {
				a.printf("%s\n", row(string(f.ID), f.Name, styleDim.Render(sourceLabel(set.Source(string(f.ID))))))
			}
			if !all {
				return nil
			}
			a.printf("\n%s\n", styleTitle.Render("Builtin data"))
			for _, n := range fonts.Names() {
				a.printf("%s\n", row(n, styleDim.Render(sourceLabel(set.Source(n)))))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list the auxiliary builtin fonts")
	return cmd
}

func sourceLabel(src string) string {
	if src == "" {
		return "missing"
	}
	return src
}
