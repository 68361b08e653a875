package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var sendEventCmd = &cobra.Command{
	Use:   "send-event EVENT_ID",
	Short: "Send an event to a running chainflow process's admin endpoint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSendEvent,
}

func init() {
	sendEventCmd.Flags().String("admin-addr", "127.0.0.1:9091", "admin endpoint of a running chainflow process")
	sendEventCmd.Flags().String("chain", "", "target chain (omit for a system/broadcast event)")
}

func runSendEvent(cmd *cobra.Command, args []string) error {
	adminAddr, _ := cmd.Flags().GetString("admin-addr")
	chain, _ := cmd.Flags().GetString("chain")

	body, err := json.Marshal(sendEventRequest{EventID: args[0], Chain: chain})
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("http://%s/events", adminAddr), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send-event: %w", err)
	}
	defer resp.Body.Close()

	var result map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("send-event: decode response: %w", err)
	}

	if !result["accepted"] {
		return fmt.Errorf("send-event: event was not accepted (status %s)", resp.Status)
	}
	fmt.Printf("✓ event %q sent\n", args[0])
	return nil
}
