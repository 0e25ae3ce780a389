// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/courtdesk/internal/core/notification"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
)

func newNotificationsCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Read hearing, deadline and decision notices",
	}
	cmd.AddCommand(
		newNotificationsListCommand(state),
		newNotificationsReadCommand(state),
	)
	return cmd
}

func (state *app) notificationService() *notification.Service {
	return notification.NewService(notification.NewUpstreamRepository(state.client), state.recorder, state.logger)
}

func newNotificationsListCommand(state *app) *cobra.Command {
	var (
		paging pageFlags
		unread bool
		kind   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := paging.params()
			notifications, total, err := state.notificationService().ListNotifications(cmd.Context(), notification.Filter{
				UnreadOnly: unread,
				Kind:       notification.NotificationKind(kind),
			}, params)
			if err != nil {
				return err
			}

			out := newTable(cmd.OutOrStdout())
			out.row("", "ID", "KIND", "TITLE", "CASE", "CREATED")
			for _, item := range notifications {
				marker := "*"
				if item.Read {
					marker = ""
				}
				created := ""
				if item.CreatedAt != nil {
					created = item.CreatedAt.Local().Format(time.DateTime)
				}
				out.row(marker, item.ID.String(), item.KindLabel, item.Title, idString(item.CaseID), orDash(created))
			}
			if err := out.flush(); err != nil {
				return err
			}
			footer(cmd.OutOrStdout(), params, total)
			return nil
		},
	}

	paging.bind(cmd)
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind")
	return protected(cmd, sec.PermViewNotification)
}

func newNotificationsReadCommand(state *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark one notification, or all with --all, as read",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			service := state.notificationService()

			if all {
				updated, err := service.MarkAllRead(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d notifications as read\n", updated)
				return nil
			}

			item, err := service.MarkRead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as read\n", item.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "mark every notification as read")
	return protected(cmd, sec.PermViewNotification)
}
