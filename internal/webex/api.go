package webex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
)

const messagesPageSize = 1000

// ListRoomsOptions filters /rooms
type ListRoomsOptions struct {
	Type string // "group", "direct" or "" for both
	Max  int    // page size, 0 uses the API default
}

// Me returns the owner of the access token
func (c *Client) Me(ctx context.Context) (*Person, error) {
	var p Person
	if _, err := c.get(ctx, "people/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListRooms returns every room visible to the token, most recently active first
func (c *Client) ListRooms(ctx context.Context, opts ListRoomsOptions) ([]internal.Room, error) {
	query := url.Values{}
	query.Set("sortBy", "lastactivity")
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	if opts.Max > 0 {
		query.Set("max", strconv.Itoa(opts.Max))
	}

	var rooms []internal.Room
	next := "rooms"
	for page := 1; next != ""; page++ {
		var p roomPage
		var err error
		next, err = c.get(ctx, next, queryForPage(page, query), &p)
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		for _, r := range p.Items {
			rooms = append(rooms, c.normalizer.NormalizeRoom(r))
		}
	}

	internal.LogDebug("Fetched %d rooms", len(rooms))
	return rooms, nil
}

// GetRoom returns a single room
func (c *Client) GetRoom(ctx context.Context, roomID string) (*internal.Room, error) {
	var r apiRoom
	if _, err := c.get(ctx, "rooms/"+url.PathEscape(roomID), nil, &r); err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	room := c.normalizer.NormalizeRoom(r)
	return &room, nil
}

// ListMessages returns all messages of a room, oldest first, without duplicates
func (c *Client) ListMessages(ctx context.Context, roomID string) ([]internal.Message, error) {
	query := url.Values{}
	query.Set("roomId", roomID)
	query.Set("max", strconv.Itoa(messagesPageSize))

	var raw []apiMessage
	next := "messages"
	for page := 1; next != ""; page++ {
		var p messagePage
		var err error
		next, err = c.get(ctx, next, queryForPage(page, query), &p)
		if err != nil {
			return nil, fmt.Errorf("list messages of %s: %w", roomID, err)
		}
		raw = append(raw, p.Items...)
		internal.LogDebug("Fetched page %d of %s (%d messages so far)", page, roomID, len(raw))
	}

	messages := c.normalizer.NormalizeMessages(raw)
	messages = internal.NewDeduplicator().Deduplicate(messages)
	return internal.SortChronological(messages), nil
}

// DownloadConversation fetches a room and all of its messages
func (c *Client) DownloadConversation(ctx context.Context, roomID string) (*internal.Conversation, error) {
	room, err := c.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	messages, err := c.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &internal.Conversation{
		Room:         *room,
		Messages:     messages,
		DownloadDate: time.Now(),
	}, nil
}

// queryForPage sends the query only with the first request; next links carry their own
func queryForPage(page int, query url.Values) url.Values {
	if page == 1 {
		return query
	}
	return nil
}
