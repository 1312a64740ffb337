package jielongdto

// StartView is the render model for a freshly started game.
type StartView struct {
	Seed     string `json:"seed,omitempty"`
	Opening  string `json:"opening,omitempty"`
	TailChar string `json:"tail_char,omitempty"`
	TailKey  string `json:"tail_key,omitempty"`
	GameOver bool   `json:"game_over"`
}

// MoveView is the render model for one accepted user move.
type MoveView struct {
	UserMove string   `json:"user_move"`
	Reply    string   `json:"reply,omitempty"`
	TailChar string   `json:"tail_char,omitempty"`
	TailKey  string   `json:"tail_key,omitempty"`
	GameOver bool     `json:"game_over"`
	Winner   string   `json:"winner,omitempty"`
	Rounds   int      `json:"rounds,omitempty"`
	Chain    []string `json:"chain,omitempty"`
}
