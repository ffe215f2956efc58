package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newArenaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arena",
		Short: "Arena commands",
	}

	cmd.AddCommand(newArenaCreateCmd())
	cmd.AddCommand(newArenaShowCmd())
	cmd.AddCommand(newArenaJoinCmd())
	cmd.AddCommand(newArenaLeaveCmd())
	cmd.AddCommand(newArenaMoveCmd())
	cmd.AddCommand(newArenaChatCmd())
	cmd.AddCommand(newArenaSayCmd())

	return cmd
}

// arenaIDArg parses a numeric arena id argument
func arenaIDArg(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("arena id must be numeric, got %q", arg)
	}
	return id, nil
}

func newArenaCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			var result JoinResult

			if err := client.Post("/api/v1/arenas", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Arena name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newArenaShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <arena-id>",
		Short: "Show arena state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arenaIDArg(args[0])
			if err != nil {
				return err
			}

			var result ArenaState
			if err := client.Get(fmt.Sprintf("/api/v1/arenas/%d", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newArenaJoinCmd() *cobra.Command {
	var spectate bool

	cmd := &cobra.Command{
		Use:   "join <arena-id>",
		Short: "Join an arena",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arenaIDArg(args[0])
			if err != nil {
				return err
			}

			role := "player"
			if spectate {
				role = "spectator"
			}

			req := map[string]string{"role": role}
			var result JoinResult
			if err := client.Post(fmt.Sprintf("/api/v1/arenas/%d/join", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&spectate, "spectate", false, "Join as a spectator instead of a player")

	return cmd
}

func newArenaLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <arena-id>",
		Short: "Leave an arena (forfeits a live match)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arenaIDArg(args[0])
			if err != nil {
				return err
			}

			if err := client.Post(fmt.Sprintf("/api/v1/arenas/%d/leave", id), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("left")
			return nil
		},
	}
}

func newArenaMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <arena-id> <rock|paper|scissor>",
		Short: "Submit a move",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arenaIDArg(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{"move": args[1]}
			if err := client.Post(fmt.Sprintf("/api/v1/arenas/%d/move", id), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("move submitted")
			return nil
		},
	}
}

func newArenaChatCmd() *cobra.Command {
	var since uint64
	var wait bool

	cmd := &cobra.Command{
		Use:   "chat <arena-id>",
		Short: "Read arena chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arenaIDArg(args[0])
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/api/v1/arenas/%d/chat?since=%d", id, since)
			if wait {
				path += "&wait=true"
			}

			var result ChatMessages
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

func newArenaSayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "say <arena-id> <message>",
		Short: "Post to arena chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arenaIDArg(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{"text": args[1]}
			if err := client.Post(fmt.Sprintf("/api/v1/arenas/%d/chat", id), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("sent")
			return nil
		},
	}
}
