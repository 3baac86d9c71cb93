package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/rapport/internal/instruments"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <instrument> <answers.json>",
		Short: "Score one instrument from a JSON file of item answers",
		Long: `Score one instrument offline. The file holds a JSON object mapping
item ids to raw answers, e.g. {"b1": 4, "b2": 2}. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := instruments.ParseID(args[0])
			if err != nil {
				return err
			}
			reg, err := instruments.NewRegistry()
			if err != nil {
				return fmt.Errorf("loading item banks: %w", err)
			}
			in, err := reg.Get(id)
			if err != nil {
				return err
			}

			var data []byte
			if args[1] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("reading answers: %w", err)
			}
			var answers instruments.AnswerSet
			if err := json.Unmarshal(data, &answers); err != nil {
				return fmt.Errorf("parsing answers: %w", err)
			}

			res, err := instruments.Score(in, answers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
