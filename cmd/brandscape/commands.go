package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brandscape/brandscape-api/internal/core/ports"
	"github.com/brandscape/brandscape-api/internal/core/service"
)

func newImportCmd() *cobra.Command {
	var influencersPath, matchesPath, dashboardPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace influencer, brand match and dashboard data from CSV exports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			influencers, err := os.Open(influencersPath)
			if err != nil {
				return err
			}
			defer influencers.Close()
			matches, err := os.Open(matchesPath)
			if err != nil {
				return err
			}
			defer matches.Close()

			src := service.ImportSources{Influencers: influencers, Matches: matches}
			if dashboardPath != "" {
				dashboard, err := os.Open(dashboardPath)
				if err != nil {
					return err
				}
				defer dashboard.Close()
				src.Dashboard = dashboard
			}

			a, err := connect(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.close()

			var cache ports.BrandCatalogCache
			if a.cache != nil {
				cache = a.cache
			}
			importer := service.NewImporter(a.store.Influencers, a.store.Dashboard, a.store.Matches,
				cache, a.log.With().Str("component", "importer").Logger())
			report, err := importer.Import(cmd.Context(), src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "influencers imported:  %d\n", report.Influencers)
			fmt.Fprintf(out, "brand matches imported: %d\n", report.Matches)
			fmt.Fprintf(out, "dashboard imported:    %d\n", report.Dashboard)
			fmt.Fprintf(out, "unique brands:         %d\n", report.UniqueBrands)
			if report.Skipped > 0 {
				fmt.Fprintf(out, "rows skipped:          %d\n", report.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&influencersPath, "influencers", "", "influencer CSV export")
	cmd.Flags().StringVar(&matchesPath, "matches", "", "brand match CSV export")
	cmd.Flags().StringVar(&dashboardPath, "dashboard", "", "dashboard influencer CSV export (optional)")
	_ = cmd.MarkFlagRequired("influencers")
	_ = cmd.MarkFlagRequired("matches")
	return cmd
}

func newCheckBrandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-brand <username>",
		Short: "Show whether a brand username is present in the match table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			check, err := a.diagnostics().CheckBrand(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printBrandCheck(cmd.OutOrStdout(), check)
			return nil
		},
	}
}

func newCheckInfluencersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-influencers <brand>",
		Short: "Look up every matched influencer of a brand in both profile stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.diagnostics().CheckInfluencers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printInfluencerCheck(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Summarize collection sizes and how registered brands resolve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.diagnostics().Diagnose(cmd.Context())
			if err != nil {
				return err
			}
			printDiagnose(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newFixBrandsCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fix-brands",
		Short: "Rewrite brand usernames to the casing used by the match table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.diagnostics().FixBrands(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			printFixReport(cmd.OutOrStdout(), report, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")
	return cmd
}

func printBrandCheck(w io.Writer, c *service.BrandCheck) {
	fmt.Fprintf(w, "brand %q\n", c.Username)
	fmt.Fprintf(w, "  exact match:            %s\n", yesNo(c.Exact != nil))
	fmt.Fprintf(w, "  case-insensitive match: %s\n", yesNo(c.CaseFold != nil))
	if c.CaseFold != nil && c.Exact == nil {
		fmt.Fprintf(w, "  stored as:              %s\n", c.CaseFold.BrandUsername)
	}
	fmt.Fprintf(w, "  matches:                %d\n", c.MatchCount)
	for i, m := range c.Top {
		fmt.Fprintf(w, "  %d. %s (%.4f)\n", i+1, m.InfluencerUsername, m.BrandMatchScoreScaled)
	}
}

func printInfluencerCheck(w io.Writer, r *service.InfluencerCheckReport) {
	fmt.Fprintf(w, "brand %q: %d matches\n", r.Brand, len(r.Checks))
	for _, c := range r.Checks {
		where := "missing"
		switch {
		case c.Primary != nil:
			where = "influencers"
		case c.Dashboard != nil:
			where = "dashboard only"
		}
		fmt.Fprintf(w, "  %-30s %s\n", c.Match.InfluencerUsername, where)
	}
	fmt.Fprintf(w, "in influencers: %d, dashboard only: %d, missing: %d\n",
		r.InPrimary, r.InDashboardOnly, r.Missing)
}

func printDiagnose(w io.Writer, r *service.DiagnoseReport) {
	fmt.Fprintf(w, "brands:               %d\n", r.Brands)
	fmt.Fprintf(w, "brand matches:        %d\n", r.Matches)
	fmt.Fprintf(w, "influencers:          %d\n", r.Influencers)
	fmt.Fprintf(w, "dashboard influencers: %d\n", r.Dashboard)
	if len(r.SampleBrands) > 0 {
		fmt.Fprintf(w, "sample match brands:  %s\n", strings.Join(r.SampleBrands, ", "))
	}
	if len(r.Registered) > 0 {
		fmt.Fprintln(w, "registered brands:")
		for _, b := range r.Registered {
			fmt.Fprintf(w, "  %-30s tier=%-18s matches=%d", b.Username, b.Tier, b.Matches)
			if b.Canonical != "" && b.Canonical != b.Username {
				fmt.Fprintf(w, " canonical=%s", b.Canonical)
			}
			fmt.Fprintln(w)
		}
	}
	if s := r.SampleInfluencer; s != nil {
		fmt.Fprintf(w, "sample influencer %s: influencers=%s dashboard=%s\n",
			s.Match.InfluencerUsername, yesNo(s.Primary != nil), yesNo(s.Dashboard != nil))
	}
}

func printFixReport(w io.Writer, r *service.FixReport, dryRun bool) {
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	fmt.Fprintf(w, "already correct: %d\n", r.AlreadyCorrect)
	for _, f := range r.Fixed {
		fmt.Fprintf(w, "%s: %s -> %s\n", verb, f.From, f.To)
	}
	for _, f := range r.Unmatched {
		fmt.Fprintf(w, "unmatched: %s", f.From)
		if len(f.Suggestions) > 0 {
			fmt.Fprintf(w, " (did you mean %s?)", strings.Join(f.Suggestions, ", "))
		}
		fmt.Fprintln(w)
	}
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
