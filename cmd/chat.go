/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/chat"
	"github.com/josephgoksu/voltsight/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask the EV health assistant a question",
	Long: `Ask the EV health assistant a question.

With --vehicle a prediction is run first and sent along as context, so the
assistant can answer about that battery's report.

Example:
  voltsight chat "is my degradation normal?" --vehicle EV-1042`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	addTelemetryFlags(chatCmd)
	chatCmd.Flags().String("vehicle", "", "analyse this vehicle first and send the result as context")
}

func runChat(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var result json.RawMessage
	if vehicleID, _ := cmd.Flags().GetString("vehicle"); vehicleID != "" {
		s, err := a.predictFor(cmd, vehicleID)
		if err != nil {
			return err
		}
		result = s.Result.Raw
	}

	panel := chat.NewPanel(a.chat)
	var reply chat.Message
	sendErr := withSpinner(cmd, "Thinking...", func() error {
		var err error
		reply, _, err = panel.Send(cmd.Context(), question, result)
		return err
	})

	out := cmd.OutOrStdout()
	if isJSON() {
		if err := printJSON(out, panel.Messages()); err != nil {
			return err
		}
		return sendErr
	}

	st := styles()
	width := min(ui.TerminalWidth(80), 100) - 4
	fmt.Fprintln(out, ui.NewPanel(st, "EV Health Assistant", ui.WrapText(reply.Text, width)).
		WithBorderColor(st.Theme.Accent).
		Render())
	return sendErr
}
