package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	service "github.com/okian/attrition/internal/app"
)

func (cl *commandline) predictCmd() *cobra.Command {
	var (
		remote  string
		timeout time.Duration
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict attrition for one employee",
		Long: "Builds an employee record from the defaults overridden by the field flags,\n" +
			"clamps numbers to their ranges and predicts locally or against --remote.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := inputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			var p Predictor
			if remote != "" {
				p = newRemotePredictor(remote, timeout)
			} else if p, err = cl.localPredictor(cmd.Context()); err != nil {
				return err
			}

			res, err := p.Predict(cmd.Context(), in)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printVerdict(cmd.OutOrStdout(), res)
			return nil
		},
	}
	addFieldFlags(cmd.Flags())
	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a running predictor, e.g. http://localhost:9080")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "remote request timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printVerdict(w io.Writer, res service.Result) {
	verdict := color.New(color.FgGreen, color.Bold)
	if res.Label == service.Leave {
		verdict = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprint(w, "The model predicts this employee is ")
	verdict.Fprint(w, res.Label.Message())
	fmt.Fprint(w, ".")
	if res.Probability != nil {
		fmt.Fprintf(w, " (probability of leaving: %.1f%%)", *res.Probability*100)
	}
	fmt.Fprintln(w)
}

type jsonResult struct {
	ID          string   `json:"id,omitempty"`
	Prediction  int      `json:"prediction"`
	Label       string   `json:"label"`
	Message     string   `json:"message"`
	Probability *float64 `json:"probability,omitempty"`
}

func printJSON(w io.Writer, res service.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		ID:          res.ID,
		Prediction:  int(res.Label),
		Label:       res.Label.String(),
		Message:     res.Label.Message(),
		Probability: res.Probability,
	})
}
