package game

import "fmt"

// Status is the lifecycle state of a room.
type Status int

const (
	_ Status = iota
	// Waiting rooms are gathering players and have not started a game.
	Waiting
	// Playing rooms have a game in progress.
	Playing
	// Finished rooms have completed a game.
	Finished
)

var statusNames = map[Status]string{
	Waiting:  "waiting",
	Playing:  "playing",
	Finished: "finished",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the status as its lowercase wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown status: %d", int(s))
	}
	return []byte(`"` + name + `"`), nil
}

// UnmarshalJSON decodes a lowercase wire name into the status.
func (s *Status) UnmarshalJSON(b []byte) error {
	for status, name := range statusNames {
		if string(b) == `"`+name+`"` {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status: %s", b)
}
