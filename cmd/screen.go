package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssbmax/olq-assessor/internal/screening"
	"github.com/ssbmax/olq-assessor/internal/sheet"
)

const (
	PromptReportByOutcome = "Report by outcome"
	PromptDumpShortlist   = "Dump shortlist to file"
)

var screenPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByOutcome, PromptDumpShortlist, PromptExit},
}

var screenCmd = &cobra.Command{
	Use:   "screen <sheet>...",
	Short: "Assess a batch of score sheets and print the shortlist",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		screen(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().BoolP("yes", "y", false, "do not prompt, print the shortlist and exit")
}

func screen(cmd *cobra.Command, paths []string) {
	ctx := context.Background()
	log, config := setup()

	entry, err := config.DefaultEntryType()
	if err != nil {
		log.Fatal("parsing the configured entry type", zap.Error(err))
	}

	screeningConfig, err := config.ScreeningConfig()
	if err != nil {
		log.Fatal("getting the screening config", zap.Error(err))
	}

	sheets, err := sheet.NewLoader(entry, config.MaxLogLength, log).LoadAll(paths)
	if err != nil {
		log.Warn("some score sheets were skipped", zap.Error(err))
	}

	log.Info("score sheets loaded", zap.Int("count", sheets.Len()))
	if sheets.Len() == 0 {
		log.Info("exiting", zap.String("reason", "no score sheets loaded"))
		return
	}

	steps := screening.DefaultSteps(screeningConfig)
	shortlist, err := screening.Run(ctx, screeningConfig, screening.Deps{Logger: log}, steps, sheets)
	if err != nil {
		log.Fatal("screening failed", zap.Error(err))
	}

	for _, st := range screening.Describe(steps) {
		log.Debug("screening step status",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}

	if shortlist.Len() == 0 {
		log.Info("exiting", zap.String("reason", "no candidates left after screening"))
		return
	}

	shortlist.SortByOutcome()
	if err := renderShortlist(cmd.OutOrStdout(), config.Output, shortlist); err != nil {
		log.Fatal("rendering the shortlist", zap.Error(err))
	}

	if cmd.Flag("yes").Value.String() == "true" {
		return
	}

	for {
		_, action, err := screenPrompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleScreenAction(cmd.OutOrStdout(), action, log, shortlist); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleScreenAction(w io.Writer, action string, log *zap.Logger, shortlist *sheet.Sheets) error {
	switch action {
	case PromptReportByOutcome:
		pretty, err := json.MarshalIndent(shortlist.ReportByOutcome(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(pretty))
		return err
	case PromptDumpShortlist:
		filename, err := shortlist.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump shortlist to file: %w", err)
		}
		log.Info("dumping shortlist to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func renderShortlist(w io.Writer, format string, shortlist *sheet.Sheets) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(shortlist)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tENTRY\tOUTCOME\tSTATUS")
	for _, sh := range shortlist.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sh.Label(), sh.EntryType, sh.Result.Title, sh.Result.DetailedSummary)
	}
	return tw.Flush()
}
