package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby commands",
	}

	cmd.AddCommand(newLobbyShowCmd())
	cmd.AddCommand(newLobbyChatCmd())
	cmd.AddCommand(newLobbySayCmd())

	return cmd
}

func newLobbyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the lobby and open arenas",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyState

			if err := client.Get("/api/v1/lobby", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLobbyChatCmd() *cobra.Command {
	var since uint64
	var wait bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read lobby chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ChatMessages

			path := fmt.Sprintf("/api/v1/lobby/chat?since=%d", since)
			if wait {
				path += "&wait=true"
			}
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&since, "since", 0, "Only show messages newer than this id")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until a new message arrives")

	return cmd
}

func newLobbySayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "say <message>",
		Short: "Post to lobby chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"text": args[0]}

			if err := client.Post("/api/v1/lobby/chat", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("sent")
			return nil
		},
	}
}
