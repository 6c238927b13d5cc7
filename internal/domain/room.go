package domain

import "sort"

// Room is a named location with an adjacency list. Agents may only move
// between directly connected rooms; a meeting room has no connections so
// nobody can wander in mid-meeting.
type Room struct {
	Name      string   `json:"name"`
	Connected []string `json:"connected"`
}

func NewRoom(name string, connected ...string) *Room {
	return &Room{Name: name, Connected: connected}
}

func (r *Room) IsConnectedTo(name string) bool {
	for _, c := range r.Connected {
		if c == name {
			return true
		}
	}
	return false
}

// RoomMap is the world's room topology keyed by name.
type RoomMap map[string]*Room

// Names returns all room names sorted.
func (m RoomMap) Names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultTopology builds the standard five-room layout: A-B, A-C, B-D, C-D,
// with E as the isolated meeting room.
func DefaultTopology() (RoomMap, string) {
	rooms := RoomMap{
		"A": NewRoom("A", "B", "C"),
		"B": NewRoom("B", "A", "D"),
		"C": NewRoom("C", "A", "D"),
		"D": NewRoom("D", "B", "C"),
		"E": NewRoom("E"),
	}
	return rooms, "E"
}
