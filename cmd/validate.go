package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssbmax/olq-assessor/internal/assessment"
	"github.com/ssbmax/olq-assessor/internal/logger"
	"github.com/ssbmax/olq-assessor/internal/olq"
	"github.com/ssbmax/olq-assessor/internal/sheet"
)

const (
	PromptShowReasons = "Show engine reasons"
	PromptDumpReport  = "Dump report to file"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var validatePrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReasons, PromptDumpReport, PromptExit},
}

var validateCmd = &cobra.Command{
	Use:   "validate <sheet>",
	Short: "Assess a single candidate score sheet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		validate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("yes", "y", false, "do not prompt, print the report and exit")
}

func validate(cmd *cobra.Command, path string) {
	log, config := setup()
	interactive := cmd.Flag("yes").Value.String() == "false"

	entry, err := config.DefaultEntryType()
	if err != nil {
		log.Fatal("parsing the configured entry type", zap.Error(err))
	}

	loader := sheet.NewLoader(entry, config.MaxLogLength, log)
	sh, err := loader.Load(path)
	if err != nil {
		log.Fatal("loading the score sheet", zap.Error(err))
	}

	if sh.EntryType == 0 {
		if !interactive {
			log.Fatal("entry type is required",
				zap.String("hint", "set entry-type in the sheet, the config, OLQ_ENTRY_TYPE or --entry-type"),
			)
		}
		if sh.EntryType, err = chooseEntryType(); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
	}

	if err := sh.Assess(); err != nil {
		log.Fatal("assessing the score sheet", zap.Error(err))
	}

	logger.WithAssessmentFields(log.With(logger.CandidateField(sh.ID)), sh.EntryType.String(), sh.Result.Recommendation.String()).
		Info("candidate assessed", zap.String("status", sh.Result.DetailedSummary))

	if err := renderResult(cmd.OutOrStdout(), config.Output, sh); err != nil {
		log.Fatal("rendering the report", zap.Error(err))
	}

	if !interactive {
		return
	}

	for {
		_, action, err := validatePrompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleValidateAction(cmd.OutOrStdout(), action, log, sh); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleValidateAction(w io.Writer, action string, log *zap.Logger, sh *sheet.Sheet) error {
	switch action {
	case PromptShowReasons:
		return writeReasons(w, sh.Result)
	case PromptDumpReport:
		filename, err := (&sheet.Sheets{Items: []*sheet.Sheet{sh}}).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		log.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func chooseEntryType() (olq.EntryType, error) {
	items := make([]string, 0, len(olq.AllEntryTypes()))
	for _, e := range olq.AllEntryTypes() {
		items = append(items, e.String())
	}

	p := promptui.Select{
		Label: "The sheet does not name an entry type. Choose one",
		Items: items,
	}
	_, selected, err := p.Run()
	if err != nil {
		return 0, err
	}
	return olq.ParseEntryType(selected)
}

func renderResult(w io.Writer, format string, sh *sheet.Sheet) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sh)
	}

	if sh.Name != "" {
		if _, err := fmt.Fprintf(w, "Candidate: %s\n", sh.Label()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, assessment.FormatReport(sh.Result))
	return err
}

func writeReasons(w io.Writer, r *assessment.Result) error {
	if len(r.Reasons) == 0 {
		_, err := fmt.Fprintln(w, "No rule lowered the recommendation.")
		return err
	}
	for i, reason := range r.Reasons {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, reason); err != nil {
			return err
		}
	}
	return nil
}
