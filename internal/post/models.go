package post

import (
	"encoding/json"
	"time"
)

// Post is stored as a single row with likes, comments and share records
// embedded in jsonb columns, so every read-modify-write touches one row.
// Author fields are snapshots taken at creation time and intentionally
// never refreshed when the profile changes.
type Post struct {
	ID             string        `json:"id"`
	AuthorID       string        `json:"author_id"`
	AuthorUsername string        `json:"author_username"`
	AuthorAvatar   string        `json:"author_avatar"`
	Caption        string        `json:"caption"`
	ImageURL       string        `json:"image_url,omitempty"`
	Deleted        bool          `json:"deleted"`
	OriginPostID   string        `json:"origin_post_id,omitempty"`
	Likes          []string      `json:"likes"`
	Comments       []Comment     `json:"comments"`
	SharedBy       []ShareRecord `json:"shared_by"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Unavailable reports whether the post has no content at all: not deleted,
// but rendered as "unavailable" by clients.
func (p Post) Unavailable() bool {
	return !p.Deleted && p.Caption == "" && p.ImageURL == ""
}

// Comment is append-only; the username is a snapshot.
type Comment struct {
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// ShareRecord logs one distribution of the post to a set of targets.
// Entries are never removed individually, only with the post itself.
type ShareRecord struct {
	SharerID       string          `json:"sharer_id"`
	SharerUsername string          `json:"sharer_username"`
	Targets        []ConnectionRef `json:"targets"`
	SharedAt       time.Time       `json:"shared_at"`
}

// ConnectionRef identifies one share target. Two encodings exist on disk:
// the legacy bare username string, and the current {id, type} object.
// Writes always produce the current form; reads accept both.
type ConnectionRef struct {
	ID             string
	Type           string
	LegacyUsername string
}

const TypeFollower = "follower"

func (r *ConnectionRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.LegacyUsername)
	}
	var obj struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	r.Type = obj.Type
	return nil
}

func (r ConnectionRef) MarshalJSON() ([]byte, error) {
	if r.ID == "" && r.LegacyUsername != "" {
		return json.Marshal(r.LegacyUsername)
	}
	return json.Marshal(struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}{r.ID, r.Type})
}

// Matches reports whether the ref addresses the given viewer. Legacy refs
// carry only a username; wrapped legacy strings carry a username in the id
// slot, so typed refs match against both.
func (r ConnectionRef) Matches(userID, username string) bool {
	if r.ID != "" {
		return r.ID == userID || (username != "" && r.ID == username)
	}
	return username != "" && r.LegacyUsername == username
}

// LatestShareFor returns the most recent share record addressing the viewer.
func LatestShareFor(records []ShareRecord, userID, username string) (ShareRecord, bool) {
	var latest ShareRecord
	found := false
	for _, rec := range records {
		for _, target := range rec.Targets {
			if !target.Matches(userID, username) {
				continue
			}
			if !found || rec.SharedAt.After(latest.SharedAt) {
				latest = rec
				found = true
			}
			break
		}
	}
	return latest, found
}
