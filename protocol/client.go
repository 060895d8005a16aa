package protocol

//input structs coming in from the client.

type Join struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"` // optional display name
}

type StartRound struct{}

type SetDirection struct {
	ID        string `json:"id"`
	Direction string `json:"direction"` // up|down|left|right
}

type Heartbeat struct {
	ID string `json:"id"`
}
