package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
)

// Wire shapes for the remote API. The server names the accumulated amount
// `current_target`; the canonical domain shape calls it Current. All
// adaptation between the two happens here and nowhere else.

// wireID tolerates servers that emit identifiers as numbers or strings.
type wireID string

func (w *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*w = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = wireID(n.String())
	return nil
}

type wireGoal struct {
	ID          wireID       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Target      int64        `json:"target"`
	Current     int64        `json:"current_target"`
	Deadline    string       `json:"deadline"`
	Members     []wireMember `json:"members"`
}

func (g wireGoal) toDomain() domain.SavingsGoal {
	goal := domain.SavingsGoal{
		ID:          string(g.ID),
		Title:       g.Title,
		Description: g.Description,
		Target:      g.Target,
		Current:     g.Current,
		Members:     make([]domain.Member, 0, len(g.Members)),
	}
	if t, ok := parseWireTime(g.Deadline); ok {
		goal.Deadline = &t
	}
	for _, m := range g.Members {
		goal.Members = append(goal.Members, m.toDomain())
	}
	return goal
}

type wireMember struct {
	ID               wireID `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	TotalContributed int64  `json:"total_contributed"`
	LastActivity     string `json:"last_activity"`
}

func (m wireMember) toDomain() domain.Member {
	member := domain.Member{
		ID:               string(m.ID),
		Username:         m.Username,
		Email:            m.Email,
		Role:             m.Role,
		TotalContributed: m.TotalContributed,
	}
	if t, ok := parseWireTime(m.LastActivity); ok {
		member.LastActivity = t
	}
	return member
}

type wireOption struct {
	ID    wireID `json:"id"`
	Title string `json:"title"`
}

type wireSession struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

func (s wireSession) token() string {
	if s.Token != "" {
		return s.Token
	}
	return s.AccessToken
}

// parseWireTime accepts the two formats the API is known to emit:
// RFC3339 timestamps and bare dates.
func parseWireTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func goalPath(id string) string {
	return fmt.Sprintf("/api/goals/%s", id)
}

func decodeGoal(body []byte) (*domain.SavingsGoal, error) {
	var wire wireGoal
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &domain.ErrServer{Status: 200, Detail: "unexpected goal payload: " + err.Error()}
	}
	goal := wire.toDomain()
	return &goal, nil
}
