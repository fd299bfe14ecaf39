package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssbmax/olq-assessor/internal/olq"
)

var traitsCmd = &cobra.Command{
	Use:   "traits",
	Short: "Print the Officer-Like Qualities and their factors",
	Run: func(cmd *cobra.Command, _ []string) {
		if err := writeTraits(cmd.OutOrStdout(), viper.GetString("output")); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(traitsCmd)
}

type traitRow struct {
	Key       string `json:"key"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Factor    string `json:"factor"`
	Group     string `json:"group"`
	Critical  bool   `json:"critical"`
	Tolerance int    `json:"tolerance"`
}

func traitRows() []traitRow {
	rows := make([]traitRow, 0, olq.TraitCount)
	for _, t := range olq.AllTraits() {
		rows = append(rows, traitRow{
			Key:       t.Key(),
			Code:      t.Code(),
			Name:      t.DisplayName(),
			Factor:    t.Factor().Label(),
			Group:     t.Factor().DisplayName(),
			Critical:  t.IsCritical(),
			Tolerance: t.Factor().Tolerance(),
		})
	}
	return rows
}

func writeTraits(w io.Writer, format string) error {
	rows := traitRows()
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tKEY\tNAME\tFACTOR\tGROUP\tCRITICAL\tTOLERANCE")
	for _, r := range rows {
		critical := ""
		if r.Critical {
			critical = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Code, r.Key, r.Name, r.Factor, r.Group, critical, strconv.Itoa(r.Tolerance))
	}
	fmt.Fprintf(tw, "\nLimitation: score %d or worse. Factor II auto-reject: Social mean of %.0f or worse.\n",
		olq.LimitationThreshold, olq.FactorIIAutoRejectThreshold)
	return tw.Flush()
}
