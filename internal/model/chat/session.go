package chat

import "time"

// Session identifies one ongoing anonymous conversation. The ordered turn log
// lives in the session store.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
