package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/webex"
	"github.com/spf13/cobra"
)

var (
	roomsType    string
	roomsID      string
	roomsRefresh bool
)

var listRoomsCmd = &cobra.Command{
	Use:   "list-rooms",
	Short: "List available Webex rooms",
	Long: `List the Webex rooms visible to your token, most recently active first.

The listing is cached for storage.room_cache_ttl; use --refresh to bypass the cache.
Use --id to show the details of a single room.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if roomsType != "" && roomsType != "group" && roomsType != "direct" {
			return fmt.Errorf("invalid --type %q (want group or direct)", roomsType)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newWebexClient(cfg)
		if err != nil {
			return err
		}
		ctx := context.Background()

		if roomsID != "" {
			room, err := client.GetRoom(ctx, roomsID)
			if err != nil {
				return err
			}
			displayRoom(cmd.OutOrStdout(), room)
			return nil
		}

		rooms, err := cachedRooms(ctx, cfg, client)
		if err != nil {
			return err
		}
		if roomsType != "" {
			var filtered []internal.Room
			for _, r := range rooms {
				if r.Type == roomsType {
					filtered = append(filtered, r)
				}
			}
			rooms = filtered
		}

		displayRooms(cmd.OutOrStdout(), rooms)
		return nil
	},
}

// cachedRooms returns the cached listing when fresh, otherwise fetches and caches it
func cachedRooms(ctx context.Context, cfg *internal.Config, client *webex.Client) ([]internal.Room, error) {
	cache := internal.NewRoomCache(cfg.RoomCachePath())
	owner := internal.TokenFingerprint(cfg.Webex.Token)

	if roomsRefresh {
		if err := cache.Clear(); err != nil {
			internal.LogWarn("Failed to clear room cache: %v", err)
		}
	} else {
		rooms, ok, err := cache.Load(owner, cfg.Storage.RoomCacheTTL)
		if err != nil {
			internal.LogWarn("Failed to load room cache: %v", err)
		} else if ok {
			internal.LogInfo("Loaded %d room(s) from cache", len(rooms))
			return rooms, nil
		}
	}

	var rooms []internal.Room
	err := internal.ShowProgress(ctx, "Fetching rooms", func() error {
		var listErr error
		rooms, listErr = client.ListRooms(ctx, webex.ListRoomsOptions{})
		return listErr
	})
	if err != nil {
		return nil, err
	}

	if err := cache.Save(owner, rooms); err != nil {
		internal.LogWarn("Failed to save room cache: %v", err)
	}
	return rooms, nil
}

func displayRooms(out io.Writer, rooms []internal.Room) {
	if len(rooms) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No rooms found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d room(s)", len(rooms))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Title")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Last Activity")+"\t"+titleStyle.Render("ID")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, room := range rooms {
		title := room.Title
		if title == "" {
			title = "Untitled"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			truncateText(title, 50), room.Type, dateStyle.Render(formatWhen(room.LastActivity)), idStyle.Render(room.ID))
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: summarize a room with `webex-summarizer summarize --room <id>`"))
}

func displayRoom(out io.Writer, room *internal.Room) {
	fmt.Fprintln(out, headerStyle.Render("📋 "+room.Title))
	fmt.Fprintf(out, "   ID:            %s\n", room.ID)
	fmt.Fprintf(out, "   Type:          %s\n", room.Type)
	fmt.Fprintf(out, "   Locked:        %t\n", room.IsLocked)
	fmt.Fprintf(out, "   Created:       %s\n", formatWhen(room.Created))
	fmt.Fprintf(out, "   Last activity: %s\n", formatWhen(room.LastActivity))
}

func init() {
	rootCmd.AddCommand(listRoomsCmd)
	listRoomsCmd.Flags().StringVar(&roomsType, "type", "", "Filter rooms by type (group, direct)")
	listRoomsCmd.Flags().StringVar(&roomsID, "id", "", "Show details of a single room")
	listRoomsCmd.Flags().BoolVar(&roomsRefresh, "refresh", false, "Ignore the cached room listing")
}
