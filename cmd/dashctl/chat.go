package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecfrdash/ecfr-dashboard/internal/model"
)

func init() {
	messagesCmd := &cobra.Command{Use: "messages", Short: "Chat message operations"}

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all chat messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet(apiFlag, "/api/chat/messages", nil, os.Stdout)
		},
	}
	messagesCmd.AddCommand(listCmd)

	// post
	var user, room string
	postCmd := &cobra.Command{
		Use:   "post TEXT",
		Short: "Post a chat message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostMessage(apiFlag, strings.Join(args, " "), user, room, os.Stdout)
		},
	}
	postCmd.Flags().StringVarP(&user, "user", "u", "", "Author name")
	postCmd.Flags().StringVarP(&room, "room", "r", "", "Room (defaults to general)")
	messagesCmd.AddCommand(postCmd)

	rootCmd.AddCommand(messagesCmd)

	roomsCmd := &cobra.Command{
		Use:   "rooms",
		Short: "List chat rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet(apiFlag, "/api/chat/rooms", nil, os.Stdout)
		},
	}
	rootCmd.AddCommand(roomsCmd)
}

func runPostMessage(apiURL, text, user, room string, out io.Writer) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	in := model.MessageInput{Text: text, User: user, Room: room}
	return doPostJSON(apiURL, "/api/chat/messages", in, out)
}
