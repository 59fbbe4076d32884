package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/outfmt"
)

const maxTextWidth = 80

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderStatuses(f *outfmt.Formatter, resp *api.Response) error {
	var statuses []api.Status
	if err := resp.Decode(&statuses); err != nil {
		return err
	}
	if len(statuses) == 0 {
		f.Empty("No statuses found")
		return nil
	}
	f.StartTable("ID", "USER", "CREATED", "TEXT")
	for _, s := range statuses {
		f.Row(s.ID.String(), statusAuthor(&s), formatCreatedAt(s.CreatedAtTime()), truncate(s.Text, maxTextWidth))
	}
	return f.EndTable()
}

func statusAuthor(s *api.Status) string {
	if s.User == nil {
		return ""
	}
	return "@" + s.User.ScreenName
}

func renderStatus(f *outfmt.Formatter, resp *api.Response) error {
	var s api.Status
	if err := resp.Decode(&s); err != nil {
		return err
	}
	pairs := [][2]string{
		{"ID", s.ID.String()},
		{"User", statusAuthor(&s)},
		{"Created", formatCreatedAt(s.CreatedAtTime())},
		{"Text", s.Text},
	}
	if s.InReplyToStatusID != 0 {
		pairs = append(pairs, [2]string{"In reply to", s.InReplyToStatusID.String()})
	}
	if s.RetweetedStatus != nil {
		pairs = append(pairs, [2]string{"Retweet of", s.RetweetedStatus.ID.String()})
	}
	if s.Source != "" {
		pairs = append(pairs, [2]string{"Source", s.Source})
	}
	return f.Properties(pairs...)
}

func renderUsers(f *outfmt.Formatter, users []api.User) error {
	if len(users) == 0 {
		f.Empty("No users found")
		return nil
	}
	f.StartTable("ID", "SCREEN NAME", "NAME", "FOLLOWERS", "FRIENDS")
	for _, u := range users {
		f.Row(u.ID.String(), "@"+u.ScreenName, u.Name, strconv.Itoa(u.FollowersCount), strconv.Itoa(u.FriendsCount))
	}
	return f.EndTable()
}

func renderUserList(f *outfmt.Formatter, resp *api.Response) error {
	var users []api.User
	if err := resp.Decode(&users); err != nil {
		return err
	}
	return renderUsers(f, users)
}

// renderUserCursor renders a cursor page of users and the next cursor.
func renderUserCursor(f *outfmt.Formatter, resp *api.Response) error {
	var page api.UserCursor
	if err := resp.Decode(&page); err != nil {
		return err
	}
	if err := renderUsers(f, page.Users); err != nil {
		return err
	}
	renderNextCursor(f, page.Cursor)
	return nil
}

func renderUser(f *outfmt.Formatter, resp *api.Response) error {
	var u api.User
	if err := resp.Decode(&u); err != nil {
		return err
	}
	pairs := [][2]string{
		{"ID", u.ID.String()},
		{"Screen name", "@" + u.ScreenName},
		{"Name", u.Name},
	}
	if u.Location != "" {
		pairs = append(pairs, [2]string{"Location", u.Location})
	}
	if u.Description != "" {
		pairs = append(pairs, [2]string{"Description", u.Description})
	}
	if u.URL != "" {
		pairs = append(pairs, [2]string{"URL", u.URL})
	}
	pairs = append(pairs,
		[2]string{"Followers", strconv.Itoa(u.FollowersCount)},
		[2]string{"Friends", strconv.Itoa(u.FriendsCount)},
		[2]string{"Statuses", strconv.Itoa(u.StatusesCount)},
		[2]string{"Protected", strconv.FormatBool(u.Protected)},
	)
	if created := formatCreatedAt(u.CreatedAtTime()); created != "" {
		pairs = append(pairs, [2]string{"Created", created})
	}
	return f.Properties(pairs...)
}

func renderIDs(f *outfmt.Formatter, resp *api.Response) error {
	doc := resp.Document()
	// The cursor form wraps the IDs; the bare form is an array.
	if doc.Has("ids") {
		var page api.IDCursor
		if err := resp.Decode(&page); err != nil {
			return err
		}
		writeIDs(f, page.IDs)
		renderNextCursor(f, page.Cursor)
		return nil
	}
	var ids []api.FlexID
	if err := resp.Decode(&ids); err != nil {
		return err
	}
	writeIDs(f, ids)
	return nil
}

func writeIDs(f *outfmt.Formatter, ids []api.FlexID) {
	if len(ids) == 0 {
		f.Empty("No IDs found")
		return
	}
	for _, id := range ids {
		f.Message("%s", id)
	}
}

func renderNextCursor(f *outfmt.Formatter, c api.Cursor) {
	if c.NextCursor != 0 {
		f.Empty(fmt.Sprintf("Next page: --cursor %s", c.NextCursor))
	}
}

func renderDirectMessages(f *outfmt.Formatter, resp *api.Response) error {
	var messages []api.DirectMessage
	if err := resp.Decode(&messages); err != nil {
		return err
	}
	if len(messages) == 0 {
		f.Empty("No direct messages found")
		return nil
	}
	f.StartTable("ID", "FROM", "TO", "CREATED", "TEXT")
	for _, m := range messages {
		f.Row(m.ID.String(), "@"+m.SenderScreenName, "@"+m.RecipientScreenName,
			formatCreatedAt(m.CreatedAtTime()), truncate(m.Text, maxTextWidth))
	}
	return f.EndTable()
}

func renderDirectMessage(f *outfmt.Formatter, resp *api.Response) error {
	var m api.DirectMessage
	if err := resp.Decode(&m); err != nil {
		return err
	}
	return f.Properties(
		[2]string{"ID", m.ID.String()},
		[2]string{"From", "@" + m.SenderScreenName},
		[2]string{"To", "@" + m.RecipientScreenName},
		[2]string{"Created", formatCreatedAt(m.CreatedAtTime())},
		[2]string{"Text", m.Text},
	)
}

func renderLists(f *outfmt.Formatter, lists []api.List) error {
	if len(lists) == 0 {
		f.Empty("No lists found")
		return nil
	}
	f.StartTable("SLUG", "NAME", "MODE", "MEMBERS", "SUBSCRIBERS")
	for _, l := range lists {
		f.Row(l.Slug, l.FullName, l.Mode, strconv.Itoa(l.MemberCount), strconv.Itoa(l.SubscriberCount))
	}
	return f.EndTable()
}

func renderListCursor(f *outfmt.Formatter, resp *api.Response) error {
	var page api.ListCursor
	if err := resp.Decode(&page); err != nil {
		return err
	}
	if err := renderLists(f, page.Lists); err != nil {
		return err
	}
	renderNextCursor(f, page.Cursor)
	return nil
}

func renderList(f *outfmt.Formatter, resp *api.Response) error {
	var l api.List
	if err := resp.Decode(&l); err != nil {
		return err
	}
	pairs := [][2]string{
		{"ID", l.ID.String()},
		{"Slug", l.Slug},
		{"Name", l.FullName},
		{"Mode", l.Mode},
		{"Members", strconv.Itoa(l.MemberCount)},
		{"Subscribers", strconv.Itoa(l.SubscriberCount)},
	}
	if l.Description != "" {
		pairs = append(pairs, [2]string{"Description", l.Description})
	}
	return f.Properties(pairs...)
}

// renderDone prints a one-line confirmation for write operations.
func renderDone(format string, args ...any) func(*outfmt.Formatter, *api.Response) error {
	return func(f *outfmt.Formatter, _ *api.Response) error {
		f.Message(format, args...)
		return nil
	}
}
