package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/pkg/feed"
)

var (
	tailChannelID int64
	tailProjectID int64
	tailSearch    string
	tailJSON      bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow a live event stream",
	Long: `Open the SSE tail of a channel or project and print events as they
arrive. Starts at the server's current position; duplicates across
reconnects are filtered client-side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (tailChannelID == 0) == (tailProjectID == 0) {
			return fmt.Errorf("exactly one of --channel or --project is required")
		}

		c := newClient()
		ctx := cmd.Context()

		cursor, err := c.MaxEventID(ctx)
		if err != nil {
			return err
		}

		f := feed.New(feed.Filters{Search: tailSearch}, cursor)
		defer f.Close()

		handle := func(batch []models.Event) error {
			before := f.Len()
			f.ApplyTail(batch)
			items := f.Items()
			fresh := f.Len() - before
			for i := fresh - 1; i >= 0; i-- {
				if err := printEvent(items[i]); err != nil {
					return err
				}
			}
			return nil
		}

		q := models.EventQuery{Search: tailSearch, AfterID: cursor}
		if tailChannelID != 0 {
			return c.StreamChannel(ctx, tailChannelID, q, handle)
		}
		return c.StreamProject(ctx, tailProjectID, q, handle)
	},
}

func printEvent(e models.Event) error {
	if tailJSON {
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	}
	line := fmt.Sprintf("%s  [%s] %s", e.CreatedAt.Format("15:04:05"), e.ChannelName, e.Name)
	for key, value := range e.Tags {
		raw, _ := json.Marshal(value)
		line += fmt.Sprintf(" %s=%s", key, raw)
	}
	fmt.Println(line)
	return nil
}

func init() {
	tailCmd.Flags().Int64Var(&tailChannelID, "channel", 0, "channel id to tail")
	tailCmd.Flags().Int64Var(&tailProjectID, "project", 0, "project id to tail")
	tailCmd.Flags().StringVar(&tailSearch, "search", "", "filter events by name")
	tailCmd.Flags().BoolVar(&tailJSON, "json", false, "print raw JSON events")
	rootCmd.AddCommand(tailCmd)
}
