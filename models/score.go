package models

// Score survives user soft-deletion; the player foreign keys stay in place so
// leaderboards keep their integrity.
type Score struct {
	Base

	Player1ID uint  `gorm:"index;not null" json:"player1_id"`
	Player2ID *uint `gorm:"index" json:"player2_id"`
	GameID    uint  `gorm:"index;not null" json:"game_id"`
	ArcadeID  uint  `gorm:"index;not null" json:"arcade_id"`
	ScoreJ1   int   `gorm:"not null" json:"score_j1"`
	ScoreJ2   *int  `json:"score_j2"`
}

// IsSinglePlayer reports whether the session had no second player.
func (s *Score) IsSinglePlayer() bool {
	return s.Player2ID == nil
}
