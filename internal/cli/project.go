package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := newClient().Projects(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tAPI KEY\tCREATED")
		for _, p := range projects {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.APIKey, p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := newClient().CreateProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created project %q (id %d)\napi key: %s\n", project.Name, project.ID, project.APIKey)
		return nil
	},
}

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Manage channels",
}

var channelProjectID int64

var channelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		channels, err := newClient().Channels(cmd.Context(), channelProjectID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCREATED")
		for _, c := range channels {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var channelCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := newClient().CreateChannel(cmd.Context(), channelProjectID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created channel %q (id %d)\n", channel.Name, channel.ID)
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd, projectCreateCmd)

	for _, c := range []*cobra.Command{channelListCmd, channelCreateCmd} {
		c.Flags().Int64Var(&channelProjectID, "project", 0, "project id")
		c.MarkFlagRequired("project")
	}
	channelCmd.AddCommand(channelListCmd, channelCreateCmd)

	rootCmd.AddCommand(projectCmd, channelCmd)
}
