package api

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// TimeLayout is the format of created_at values.
const TimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// FlexID handles IDs that arrive either as JSON numbers or as strings.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	i, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("cannot unmarshal %s into FlexID", data)
	}
	*f = FlexID(i)
	return nil
}

func (f FlexID) String() string {
	return strconv.FormatInt(int64(f), 10)
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Status is a single post.
type Status struct {
	ID                  FlexID  `json:"id"`
	Text                string  `json:"text"`
	Source              string  `json:"source,omitempty"`
	CreatedAt           string  `json:"created_at"`
	Truncated           bool    `json:"truncated,omitempty"`
	Favorited           bool    `json:"favorited,omitempty"`
	InReplyToStatusID   FlexID  `json:"in_reply_to_status_id,omitempty"`
	InReplyToScreenName string  `json:"in_reply_to_screen_name,omitempty"`
	User                *User   `json:"user,omitempty"`
	RetweetedStatus     *Status `json:"retweeted_status,omitempty"`
}

// CreatedAtTime parses CreatedAt; the zero time is returned when it is malformed.
func (s *Status) CreatedAtTime() time.Time {
	return parseCreatedAt(s.CreatedAt)
}

// User is an account profile.
type User struct {
	ID              FlexID  `json:"id"`
	ScreenName      string  `json:"screen_name"`
	Name            string  `json:"name"`
	Location        string  `json:"location,omitempty"`
	Description     string  `json:"description,omitempty"`
	URL             string  `json:"url,omitempty"`
	Protected       bool    `json:"protected,omitempty"`
	Following       bool    `json:"following,omitempty"`
	FollowersCount  int     `json:"followers_count"`
	FriendsCount    int     `json:"friends_count"`
	StatusesCount   int     `json:"statuses_count"`
	FavouritesCount int     `json:"favourites_count"`
	CreatedAt       string  `json:"created_at,omitempty"`
	Status          *Status `json:"status,omitempty"`
}

func (u *User) CreatedAtTime() time.Time {
	return parseCreatedAt(u.CreatedAt)
}

// List is a curated group of users.
type List struct {
	ID              FlexID `json:"id"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Slug            string `json:"slug"`
	Description     string `json:"description,omitempty"`
	Mode            string `json:"mode"`
	MemberCount     int    `json:"member_count"`
	SubscriberCount int    `json:"subscriber_count"`
	URI             string `json:"uri,omitempty"`
	User            *User  `json:"user,omitempty"`
}

type DirectMessage struct {
	ID                  FlexID `json:"id"`
	Text                string `json:"text"`
	CreatedAt           string `json:"created_at"`
	SenderScreenName    string `json:"sender_screen_name"`
	RecipientScreenName string `json:"recipient_screen_name"`
	Sender              *User  `json:"sender,omitempty"`
	Recipient           *User  `json:"recipient,omitempty"`
}

func (m *DirectMessage) CreatedAtTime() time.Time {
	return parseCreatedAt(m.CreatedAt)
}

// Cursor fields shared by paged collections. A NextCursor of 0 means the
// last page.
type Cursor struct {
	NextCursor     FlexID `json:"next_cursor"`
	PreviousCursor FlexID `json:"previous_cursor"`
}

// IDCursor is a page of user IDs.
type IDCursor struct {
	IDs []FlexID `json:"ids"`
	Cursor
}

// ListCursor is a page of lists.
type ListCursor struct {
	Lists []List `json:"lists"`
	Cursor
}

// UserCursor is a page of users, as returned by list members and subscribers.
type UserCursor struct {
	Users []User `json:"users"`
	Cursor
}

// RateLimit is the account/rate_limit_status body.
type RateLimit struct {
	RemainingHits      int    `json:"remaining_hits"`
	HourlyLimit        int    `json:"hourly_limit"`
	ResetTime          string `json:"reset_time"`
	ResetTimeInSeconds int64  `json:"reset_time_in_seconds"`
}

// Relationship is the friendships/show body.
type Relationship struct {
	Relationship struct {
		Source RelationshipUser `json:"source"`
		Target RelationshipUser `json:"target"`
	} `json:"relationship"`
}

type RelationshipUser struct {
	ID                   FlexID `json:"id"`
	ScreenName           string `json:"screen_name"`
	Following            bool   `json:"following"`
	FollowedBy           bool   `json:"followed_by"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Blocking             bool   `json:"blocking"`
}
