package models

import (
	"time"
)

type Ticket struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	SectorCode  string     `json:"sector_code"`
	SectorLabel string     `json:"sector_label"`
	Priority    bool       `json:"priority"`
	Status      string     `json:"status"` // waiting, served, cancelled
	ArrivedAt   time.Time  `json:"arrived_at"`
	ServedAt    *time.Time `json:"served_at,omitempty"`
	ServedRoom  string     `json:"served_room,omitempty"`
}

const (
	StatusWaiting   = "waiting"
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

// Call - a single announcement of a served ticket, pushed to displays.
type Call struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Room     string `json:"room"`
	Priority bool   `json:"priority"`
	IsRepeat bool   `json:"is_repeat"`
}

// WelcomeName marks the placeholder call shown before any dispatch.
const WelcomeName = "Bem-vindo"

// WelcomeCall - initial placeholder, same as what the displays booted with
// before the first ticket is ever called.
func WelcomeCall() Call {
	return Call{Name: WelcomeName, Sector: "Aguarde", Room: ""}
}
