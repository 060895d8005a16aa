package protocol

type Welcome struct {
	ID         string `json:"id"`
	Resumed    bool   `json:"resumed"`
	GridWidth  int    `json:"gridWidth"`
	GridHeight int    `json:"gridHeight"`
	WinScore   int    `json:"winScore"`
}

type RoundState struct {
	InProgress   bool                  `json:"inProgress"`
	Participants []ParticipantSnapshot `json:"participants"`
	Pickups      []PickupSnapshot      `json:"pickups"`
}

type RosterChanged struct {
	Participants []ParticipantSnapshot `json:"participants"`
}

type RoundWon struct {
	WinnerID string `json:"winnerId"`
}

type ParticipantLeft struct {
	ID string `json:"id"`
}

type ParticipantSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
	Score     int    `json:"score"`
}

type PickupSnapshot struct {
	X int `json:"x"`
	Y int `json:"y"`
}
